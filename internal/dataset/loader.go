package dataset

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dshills/qcgen/internal/qc"
	"github.com/dshills/qcgen/internal/schema"
	"github.com/dshills/qcgen/internal/schema/validate"
)

// Dataset holds a loaded series with derived metadata.
type Dataset struct {
	Path   string
	Hash   string // "sha256:<hex>"
	Series qc.Series
	// Run is set when the file was a rendered JSON or YAML run document.
	Run *schema.Run
}

// Load reads a series from disk. .json, .yaml and .yml files are parsed as
// run documents; anything else as Day,Value CSV or one value per line.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading series file: %w", err)
	}

	sum := sha256.Sum256(data)
	ds := &Dataset{
		Path: path,
		Hash: fmt.Sprintf("sha256:%x", sum),
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		run, err := validate.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing run document %s: %w", path, err)
		}
		ds.Run = run
		ds.Series = FromPoints(run.Points)
	default:
		s, err := ParseCSV(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		ds.Series = s
	}
	return ds, nil
}

// FromPoints extracts values from points already validated as contiguous.
func FromPoints(points []schema.Point) qc.Series {
	s := make(qc.Series, len(points))
	for i, p := range points {
		s[i] = p.Value
	}
	return s
}

// ParseCSV reads the export format: an optional "Day,Value" header followed
// by one row per point. Rows with a single field are read as bare values,
// which also accepts the relay's one-value-per-line text.
func ParseCSV(r io.Reader) (qc.Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var s qc.Series
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 && isHeader(rec) {
			continue
		}

		var valueField string
		switch len(rec) {
		case 1:
			valueField = rec[0]
		case 2:
			day, err := strconv.Atoi(strings.TrimSpace(rec[0]))
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid day %q", line, rec[0])
			}
			if day != len(s)+1 {
				return nil, fmt.Errorf("line %d: day %d out of sequence, want %d", line, day, len(s)+1)
			}
			valueField = rec[1]
		default:
			return nil, fmt.Errorf("line %d: expected 1 or 2 fields, got %d", line, len(rec))
		}

		v, err := strconv.ParseFloat(strings.TrimSpace(valueField), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid value %q", line, valueField)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("line %d: value must be finite", line)
		}
		s = append(s, v)
	}
	return s, nil
}

func isHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	first := strings.TrimSpace(rec[0])
	return strings.EqualFold(first, "day") || strings.EqualFold(first, "value")
}
