package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/MrSnakeDoc/linkvault/internal/domain"
)

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string `json:"status"`         // "ok" or "error"
	Data   any    `json:"data,omitempty"` // success payload
}

func newFormatter(opts *RootOptions, w io.Writer) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: w}
}

// Success outputs data as JSON, or calls text for human-readable output.
func (f *OutputFormatter) Success(data any, text func(w io.Writer)) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	text(f.Writer)
	return nil
}

// Record prints one link.
func (f *OutputFormatter) Record(r domain.LinkRecord) error {
	return f.Success(r, func(w io.Writer) { writeRecord(w, r) })
}

// Records prints a list of links as a table.
func (f *OutputFormatter) Records(recs []domain.LinkRecord) error {
	if recs == nil {
		recs = []domain.LinkRecord{}
	}
	return f.Success(recs, func(w io.Writer) { writeTable(w, recs) })
}

// Message prints a short confirmation.
func (f *OutputFormatter) Message(msg string, data any) error {
	return f.Success(data, func(w io.Writer) { fmt.Fprintln(w, msg) })
}

func writeRecord(w io.Writer, r domain.LinkRecord) {
	fmt.Fprintf(w, "%s %s\n", flags(r), r.Title)
	fmt.Fprintf(w, "  id:    %s\n", r.ID)
	fmt.Fprintf(w, "  url:   %s\n", r.URL)
	if r.Description != "" {
		fmt.Fprintf(w, "  about: %s\n", r.Description)
	}
	if len(r.Tags) > 0 {
		fmt.Fprintf(w, "  tags:  %s\n", strings.Join(r.Tags, ", "))
	}
	if r.Notes != "" {
		fmt.Fprintf(w, "  notes: %s\n", r.Notes)
	}
	fmt.Fprintf(w, "  icon:  %s  color: %s\n", r.Icon, r.Color)
}

func writeTable(w io.Writer, recs []domain.LinkRecord) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No links.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFLAGS\tTITLE\tURL\tTAGS")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, flags(r), r.Title, r.URL, strings.Join(r.Tags, ","))
	}
	_ = tw.Flush()
}

// flags renders favorite, read and enriched as a fixed width marker.
func flags(r domain.LinkRecord) string {
	b := []byte("---")
	if r.IsFavorite {
		b[0] = 'F'
	}
	if r.IsRead {
		b[1] = 'R'
	}
	if r.AIEnriched {
		b[2] = 'A'
	}
	return string(b)
}
