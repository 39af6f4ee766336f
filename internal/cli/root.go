// Package cli implements the parquet2jsonl command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

const (
	LogLevelFlag  = "loglevel"
	LogFormatFlag = "logformat"
	LogOutputFlag = "logoutput"
)

// Execute runs the root command with the process arguments. Cancelling ctx
// stops a running conversion between rows.
func Execute(ctx context.Context) error {
	return New().ExecuteContext(ctx)
}

// New returns the root command with all subcommands registered.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parquet2jsonl [sub-command]",
		Short: "Convert parquet files to JSON Lines",
		Long: `parquet2jsonl converts every parquet file in a directory into a JSON Lines
file with the same name, one JSON object per row. Nested lists, maps and
structs are written as JSON arrays and objects.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	registerLoggingFlags(cmd)
	cmd.AddCommand(newConvertCmd())
	cmd.AddCommand(newSchemaCmd())
	return cmd
}

func registerLoggingFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String(LogLevelFlag, "info", `sets the logging level, one of "debug", "info", "warn", "error"`)
	flags.String(LogFormatFlag, "text", `set the log output format that is used to print individual logs, one of "text", "json"`)
	flags.String(LogOutputFlag, "stderr", `set the log output destination, one of "stdout", "stderr"`)
}
