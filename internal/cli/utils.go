// Package cli provides CLI output utilities for Kotae.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/kotae/internal/models"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteAnswer writes a chat response to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteAnswer(w io.Writer, response *models.ChatResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	default:
		writeAnswerText(w, response)
		return nil
	}
}

func writeAnswerText(w io.Writer, response *models.ChatResponse) {
	fmt.Fprintf(w, "\n%s\n", response.Answer)
	if response.InsufficientContext {
		fmt.Fprintln(w, "\n(no indexed passage scored above the similarity floor)")
	}
	if len(response.CitedSources) > 0 {
		fmt.Fprintln(w, "\nSources:")
		for _, c := range response.CitedSources {
			fmt.Fprintf(w, "  %s p.%d\n", c.SourceDocument, c.PageNumber)
		}
	}
	fmt.Fprintf(w, "\nsession: %s\n", response.SessionID)
}

// WriteIngestResult writes an ingestion outcome to w in the given format.
func WriteIngestResult(w io.Writer, response *models.IngestResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	default:
		fmt.Fprintf(w, "%s: %s", response.Status, response.Document)
		if response.Status == "ingested" {
			fmt.Fprintf(w, " (%d pages, %d chunks)", response.Pages, response.Chunks)
		}
		if response.Reason != "" {
			fmt.Fprintf(w, " (%s)", response.Reason)
		}
		fmt.Fprintln(w)
		return nil
	}
}
