package render

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/dshills/qcgen/internal/schema"
)

// CSVHeader is the first row of an exported series.
var CSVHeader = []string{"Day", "Value"}

// FormatValue is the two-decimal form used by every series export.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

type csvRenderer struct{}

func (r *csvRenderer) Render(run *schema.Run) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(CSVHeader); err != nil {
		return nil, fmt.Errorf("rendering csv: %w", err)
	}
	for _, p := range run.Points {
		if err := w.Write([]string{strconv.Itoa(p.Day), FormatValue(p.Value)}); err != nil {
			return nil, fmt.Errorf("rendering csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("rendering csv: %w", err)
	}
	return buf.Bytes(), nil
}

// textRenderer writes one value per line, the form the automation relay types.
type textRenderer struct{}

func (r *textRenderer) Render(run *schema.Run) ([]byte, error) {
	var buf bytes.Buffer
	for _, p := range run.Points {
		buf.WriteString(FormatValue(p.Value))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
