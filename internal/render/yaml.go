package render

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dshills/qcgen/internal/schema"
)

type yamlRenderer struct{}

func (r *yamlRenderer) Render(run *schema.Run) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(run); err != nil {
		return nil, fmt.Errorf("rendering yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("rendering yaml: %w", err)
	}
	return buf.Bytes(), nil
}
