package planner

import (
	"bytes"
	"os"
	"strings"
	"text/template"
)

const defaultSummaryTemplate = `Timeline for {{if .Project}}{{.Project}}{{else}}project{{end}}

Start:      {{.ProjectStart}}
Completion: {{.ProjectedCompletion}} ({{.TotalDurationDays}} days)
{{- if .Deadline}}
Deadline:   {{.Deadline}}
{{- if .MeetsDeadline}}
Status:     on track, {{.DaysBeforeDeadline}} days to spare
{{- else}}
Status:     LATE by {{neg .DaysBeforeDeadline}} days
{{- end}}
{{- end}}

Critical path: {{join .CriticalPath " -> "}}
{{- if .Fallbacks}}
Fallback durations used for: {{join .Fallbacks ", "}}
{{- end}}
{{- if .Degraded}}
WARNING: degraded schedule, dependencies were ignored
{{- end}}
`

// RenderSummary renders a plain-text summary of tl using either a custom
// template file or the default.
func RenderSummary(tl *Timeline, templatePath string) (string, error) {
	tmplStr := defaultSummaryTemplate
	if templatePath != "" {
		content, err := os.ReadFile(templatePath)
		if err != nil {
			return "", err
		}
		tmplStr = string(content)
	}

	tmpl, err := template.New("summary").Funcs(template.FuncMap{
		"join": strings.Join,
		"neg":  func(n int) int { return -n },
	}).Parse(tmplStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, tl); err != nil {
		return "", err
	}
	return buf.String(), nil
}

