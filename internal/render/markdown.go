package render

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/dshills/qcgen/internal/schema"
)

type markdownRenderer struct{}

var mdTemplate = template.Must(template.New("run").Funcs(template.FuncMap{
	"f2": FormatValue,
}).Parse(`# QC Run Report

**Verdict:** {{ .Summary.Verdict }}
**Target:** {{ f2 .Input.Target }} | **SD:** {{ f2 .Input.StdDev }} | **CV:** {{ f2 .Input.CVPercent }}%
**Observed:** mean {{ f2 .Summary.Mean }} | SD {{ f2 .Summary.SD }} | CV {{ f2 .Summary.CVPercent }}% | range {{ f2 .Summary.Min }}–{{ f2 .Summary.Max }}
**Rejections:** {{ .Summary.RejectCount }} | **Warnings:** {{ .Summary.WarningCount }}
{{ if .Summary.DegenerateDays }}> Degenerate LogNormal days (working mean emitted): {{ range .Summary.DegenerateDays }}{{ . }} {{ end }}
{{ end }}
---

## Rules

| Rule | Enabled | Violated | First day |
|---|---|---|---|
{{ range .Rules }}| {{ .Rule }} | {{ .Enabled }} | {{ if .Violated }}**yes**{{ else }}no{{ end }} | {{ if .FirstDay }}{{ .FirstDay }}{{ else }}–{{ end }} |
{{ end }}
---

## Series

| Day | Value |
|---|---|
{{ range .Points }}| {{ .Day }} | {{ f2 .Value }} |
{{ end }}
---
*Run: {{ .Meta.RunID }}{{ if .Input.Seed }} | Seed: {{ .Input.Seed }}{{ end }}{{ if .Input.Profile }} | Profile: {{ .Input.Profile }}{{ end }}*
`))

func (r *markdownRenderer) Render(run *schema.Run) ([]byte, error) {
	var buf bytes.Buffer
	if err := mdTemplate.Execute(&buf, run); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.Bytes(), nil
}
