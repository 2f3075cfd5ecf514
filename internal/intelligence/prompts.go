package intelligence

import (
	"strings"
	"text/template"
)

const suggestSystemPrompt = `You are an OKR coach. Given one key result and its progress,
propose small weekly habits that would move it toward its target.

Respond with ONLY a JSON object of this shape:
{"suggestions": [{"title": "...", "rationale": "..."}]}

Rules:
1. At most 3 suggestions, most impactful first.
2. Each title is an imperative action a person can repeat every week.
3. Each rationale is one sentence linking the habit to the metric.
4. Do not restate the key result or invent numbers that were not given.`

type promptInput struct {
	Objective  string
	KeyResult  string
	Type       string
	Base       string
	Current    string
	Target     string
	Percentage string
	Status     string
	Max        int
}

var suggestPrompt = template.Must(template.New("suggest").Parse(
	`{{if .Objective}}Objective: {{.Objective}}
{{end}}Key result: {{.KeyResult}}
Metric type: {{.Type}}
Baseline: {{.Base}}
Current: {{.Current}}
Target: {{.Target}}
Progress: {{.Percentage}} ({{.Status}})

Suggest up to {{.Max}} weekly habits.`))

func renderSuggestPrompt(in promptInput) (string, error) {
	var b strings.Builder
	if err := suggestPrompt.Execute(&b, in); err != nil {
		return "", err
	}
	return b.String(), nil
}
