package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/MikeBiancalana/calpick/internal/calendar"
	"github.com/MikeBiancalana/calpick/internal/storage"
)

type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatTSV  OutputFormat = "tsv"
	FormatCSV  OutputFormat = "csv"
)

func parseFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "tsv":
		return FormatTSV, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: text, json, tsv, csv)", s)
	}
}

// cellRecord is the serialized form of a grid cell.
type cellRecord struct {
	Content  string `json:"content"`
	Value    int    `json:"value"`
	Date     string `json:"date,omitempty"`
	Disabled bool   `json:"disabled"`
	Selected bool   `json:"selected"`
}

func cellRecords(cells []calendar.Cell) []cellRecord {
	records := make([]cellRecord, len(cells))
	for i, c := range cells {
		records[i] = cellRecord{
			Content:  c.Content,
			Value:    c.Value,
			Disabled: c.Disabled,
			Selected: c.Selected,
		}
		if !c.Date.IsZero() {
			records[i].Date = c.Date.Format(storage.DateLayout)
		}
	}
	return records
}

func formatCellsJSON(w io.Writer, cells []calendar.Cell) error {
	return json.NewEncoder(w).Encode(cellRecords(cells))
}

func formatCellsTSV(w io.Writer, cells []calendar.Cell) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', tabwriter.TabIndent)
	fmt.Fprintln(tw, "CONTENT\tVALUE\tDATE\tDISABLED\tSELECTED")
	for _, r := range cellRecords(cells) {
		date := r.Date
		if date == "" {
			date = "-"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%t\t%t\n", r.Content, r.Value, date, r.Disabled, r.Selected)
	}
	return tw.Flush()
}

func formatCellsCSV(w io.Writer, cells []calendar.Cell) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"CONTENT", "VALUE", "DATE", "DISABLED", "SELECTED"})
	for _, r := range cellRecords(cells) {
		record := []string{
			r.Content,
			strconv.Itoa(r.Value),
			r.Date,
			strconv.FormatBool(r.Disabled),
			strconv.FormatBool(r.Selected),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatCellsText lays the cells out in rows under the mode's headers.
// Disabled cells are wrapped in parentheses, selected ones in brackets.
func formatCellsText(w io.Writer, cells []calendar.Cell, mode calendar.Mode, params calendar.Params) error {
	cols := calendar.Columns(mode)
	if cols <= 0 {
		cols = 1
	}
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if mode == calendar.ModeDay {
		fmt.Fprintln(tw, strings.Join(calendar.Headers(mode, params), "\t")+"\t")
	}
	for i, c := range cells {
		label := c.Content
		switch {
		case c.Disabled:
			label = "(" + label + ")"
		case c.Selected:
			label = "[" + label + "]"
		}
		fmt.Fprint(tw, label+"\t")
		if (i+1)%cols == 0 || i == len(cells)-1 {
			fmt.Fprintln(tw)
		}
	}
	return tw.Flush()
}

// blackoutRecord is the serialized form of a stored or resolved blackout.
type blackoutRecord struct {
	ID     string `json:"id,omitempty"`
	Date   string `json:"date"`
	Reason string `json:"reason,omitempty"`
}

func formatBlackoutsJSON(w io.Writer, records []blackoutRecord) error {
	return json.NewEncoder(w).Encode(records)
}

func formatBlackoutsTSV(w io.Writer, records []blackoutRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', tabwriter.TabIndent)
	fmt.Fprintln(tw, "ID\tDATE\tREASON")
	for _, r := range records {
		id, reason := r.ID, r.Reason
		if id == "" {
			id = "-"
		}
		if reason == "" {
			reason = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", id, r.Date, reason)
	}
	return tw.Flush()
}

func formatBlackoutsCSV(w io.Writer, records []blackoutRecord) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"ID", "DATE", "REASON"})
	for _, r := range records {
		if err := cw.Write([]string{r.ID, r.Date, r.Reason}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeBlackouts prints records in format. Text is the TSV table.
func writeBlackouts(w io.Writer, records []blackoutRecord, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return formatBlackoutsJSON(w, records)
	case FormatCSV:
		return formatBlackoutsCSV(w, records)
	default:
		return formatBlackoutsTSV(w, records)
	}
}
