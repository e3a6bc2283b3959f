package render

import (
	"encoding/json"

	"github.com/dshills/qcgen/internal/schema"
)

type jsonRenderer struct{}

func (r *jsonRenderer) Render(run *schema.Run) ([]byte, error) {
	return json.MarshalIndent(run, "", "  ")
}
