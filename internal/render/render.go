package render

import (
	"fmt"

	"github.com/dshills/qcgen/internal/schema"
)

// Renderer formats a Run into bytes for output.
type Renderer interface {
	Render(run *schema.Run) ([]byte, error)
}

// Formats lists the supported format names.
var Formats = []string{"json", "yaml", "md", "csv", "text"}

// NewRenderer returns a Renderer for the given format string.
func NewRenderer(format string) (Renderer, error) {
	switch format {
	case "json":
		return &jsonRenderer{}, nil
	case "yaml":
		return &yamlRenderer{}, nil
	case "md":
		return &markdownRenderer{}, nil
	case "csv":
		return &csvRenderer{}, nil
	case "text":
		return &textRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q: supported formats are json, yaml, md, csv, text", format)
	}
}
