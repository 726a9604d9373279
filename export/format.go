package export

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatPDF   Format = "pdf"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTable, FormatCSV, FormatJSON, FormatYAML, FormatPDF:
		return f, nil
	case "":
		return FormatTable, nil
	}
	return "", fmt.Errorf("unknown format %q (want table, csv, json, yaml or pdf)", s)
}

// ContentType is the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatPDF:
		return "application/pdf"
	}
	return "text/plain; charset=utf-8"
}

// Writer renders reports in one format.
type Writer struct {
	format Format
	money  *Money
}

func NewWriter(format Format, money *Money) *Writer {
	return &Writer{format: format, money: money}
}

func (w *Writer) Write(out io.Writer, report Report) error {
	switch w.format {
	case FormatCSV:
		return WriteCSV(out, report)
	case FormatJSON:
		return WriteJSON(out, report)
	case FormatYAML:
		return WriteYAML(out, report)
	case FormatPDF:
		return WritePDF(out, report, w.money)
	default:
		return WriteTable(out, report, w.money)
	}
}

func WriteJSON(out io.Writer, report Report) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func WriteYAML(out io.Writer, report Report) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
