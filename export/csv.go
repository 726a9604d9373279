package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes the header and one line per row with whole-unit values.
func WriteCSV(out io.Writer, report Report) error {
	w := csv.NewWriter(out)

	if err := w.Write(report.Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range report.Rows {
		record := []string{
			row.Label,
			strconv.FormatInt(row.Principal, 10),
			strconv.FormatInt(row.Interest, 10),
			strconv.FormatInt(row.Balance, 10),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", row.Label, err)
		}
	}

	w.Flush()
	return w.Error()
}
