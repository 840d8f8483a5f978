package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/phrazzld/oneline-api/internal/domain"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// entryView is the printed form of an entry.
type entryView struct {
	ID          string    `json:"id"           yaml:"id"`
	Date        string    `json:"date"         yaml:"date"`
	DisplayDate string    `json:"display_date" yaml:"display_date"`
	Sentence    string    `json:"sentence"     yaml:"sentence"`
	CreatedAt   time.Time `json:"created_at"   yaml:"created_at"`
}

func viewOf(e domain.JournalEntry) entryView {
	return entryView{
		ID:          e.ID,
		Date:        e.Date.String(),
		DisplayDate: e.Date.Display(),
		Sentence:    e.Sentence,
		CreatedAt:   e.CreatedAt.UTC(),
	}
}

func validateOutput(format string) error {
	switch format {
	case outputText, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (want text, json or yaml)", format)
	}
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// printHistory renders entries newest first.
func printHistory(w io.Writer, format string, entries []domain.JournalEntry) error {
	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, viewOf(e))
	}

	if format != outputText {
		return writeStructured(w, format, views)
	}

	if len(views) == 0 {
		_, err := fmt.Fprintln(w, "No entries yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, v := range views {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", v.DisplayDate, v.Sentence); err != nil {
			return err
		}
	}
	return tw.Flush()
}
