package main

import (
	"log"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
)

type Address struct {
	Street string `parquet:"street"`
	City   string `parquet:"city"`
}

type Event struct {
	ID      int64             `parquet:"id"`
	Name    string            `parquet:"name"`
	Score   float64           `parquet:"score"`
	Active  bool              `parquet:"active"`
	Note    *string           `parquet:"note,optional"`
	Created time.Time         `parquet:"created,timestamp(microsecond)"`
	Tags    []string          `parquet:"tags,list"`
	Labels  map[string]string `parquet:"labels"`
	Address Address           `parquet:"address"`
	Payload []byte            `parquet:"payload"`
}

func main() {
	note := "first run"
	created := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	events := []Event{
		{
			ID: 1, Name: "alice", Score: 95.5, Active: true, Note: &note, Created: created,
			Tags:    []string{"a", "b"},
			Labels:  map[string]string{"env": "prod"},
			Address: Address{Street: "1 Main St", City: "Springfield"},
			Payload: []byte("hello"),
		},
		{
			ID: 2, Name: "bob", Score: 82.25, Created: created.Add(time.Hour),
			Labels:  map[string]string{},
			Address: Address{City: "Shelbyville"},
		},
		{
			ID: 3, Name: "chloé", Score: 1e-7, Active: true, Created: created.Add(2 * time.Hour),
			Tags:    []string{"ünïcode", "日本"},
			Labels:  map[string]string{"10": "x", "20": "y"},
			Address: Address{Street: "=SUM(A1)", City: "Ogdenville"},
		},
	}

	file, err := os.Create("nested.parquet")
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[Event](file)
	if _, err := writer.Write(events); err != nil {
		log.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		log.Fatal(err)
	}

	log.Printf("Generated nested.parquet with %d events", len(events))
}
