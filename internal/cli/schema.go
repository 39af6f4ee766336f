package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/vegasq/parquet2jsonl/canonical"
	"github.com/vegasq/parquet2jsonl/output"
	"github.com/vegasq/parquet2jsonl/reader"
)

const (
	SchemaFormatTable = "table"
	SchemaFormatJSONL = "jsonl"
)

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema <file.parquet>",
		Short: "Show the top-level columns of a parquet file",
		Example: `  parquet2jsonl schema data.parquet
  parquet2jsonl schema data.parquet --format jsonl`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmd.Flags().GetString(FormatFlag)
			if err != nil {
				return err
			}

			infos, err := reader.ExtractSchemaInfo(args[0])
			if err != nil {
				return err
			}

			switch strings.ToLower(format) {
			case SchemaFormatTable:
				renderSchemaTable(cmd.OutOrStdout(), infos)
				return nil
			case SchemaFormatJSONL, "json":
				return renderSchemaJSONL(cmd.OutOrStdout(), infos)
			default:
				return fmt.Errorf("unsupported schema format %q (expected %s or %s)", format, SchemaFormatTable, SchemaFormatJSONL)
			}
		},
	}

	cmd.Flags().StringP(FormatFlag, "f", SchemaFormatTable, "output format: table, jsonl")
	return cmd
}

func renderSchemaTable(w io.Writer, infos []reader.SchemaInfo) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Type", "Physical Type", "Logical Type", "Repetition"})
	table.SetAutoWrapText(false)
	for _, info := range infos {
		table.Append([]string{info.Name, info.Type, info.PhysicalType, info.LogicalType, repetition(info)})
	}
	table.Render()
}

func renderSchemaJSONL(w io.Writer, infos []reader.SchemaInfo) error {
	f := output.NewJSONFormatter(w)
	for _, info := range infos {
		row := canonical.MappingOf(
			canonical.Entry{Key: "name", Value: canonical.Text(info.Name)},
			canonical.Entry{Key: "type", Value: canonical.Text(info.Type)},
			canonical.Entry{Key: "physical_type", Value: canonical.Text(info.PhysicalType)},
			canonical.Entry{Key: "logical_type", Value: canonical.Text(info.LogicalType)},
			canonical.Entry{Key: "required", Value: canonical.Bool(info.Required)},
			canonical.Entry{Key: "optional", Value: canonical.Bool(info.Optional)},
			canonical.Entry{Key: "repeated", Value: canonical.Bool(info.Repeated)},
		)
		if err := f.WriteRow(row); err != nil {
			return err
		}
	}
	return f.Flush()
}

func repetition(info reader.SchemaInfo) string {
	switch {
	case info.Repeated:
		return "REPEATED"
	case info.Optional:
		return "OPTIONAL"
	case info.Required:
		return "REQUIRED"
	}
	return ""
}
