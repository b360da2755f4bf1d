package template

import (
	"bytes"
	"fmt"
	"text/template"

	"autogame.dev/internal/config"
)

// Default marker templates. The run-history miner finds past durations by
// searching for these exact phrases, so changing them orphans older logs.
const (
	DefaultStartMarker    = "执行{{.Name}}"
	DefaultEndMarker      = "{{.Name}}执行完成"
	DefaultFallbackMarker = "{{.Name}}已启动"
)

// MarkerData is what a marker template can reference
type MarkerData struct {
	Key  string
	Name string
}

// Markers holds the rendered phrases for one task
type Markers struct {
	Key      string
	Name     string
	Start    string
	End      string
	Fallback string
}

// ResolveMarkers renders a task's start, end and fallback markers, using the
// defaults for any template the task leaves empty
func ResolveMarkers(task config.Task) (Markers, error) {
	data := MarkerData{Key: task.Key, Name: task.Name}

	start, err := render("start", pick(task.Markers.Start, DefaultStartMarker), data)
	if err != nil {
		return Markers{}, fmt.Errorf("game '%s': %w", task.Key, err)
	}
	end, err := render("end", pick(task.Markers.End, DefaultEndMarker), data)
	if err != nil {
		return Markers{}, fmt.Errorf("game '%s': %w", task.Key, err)
	}
	fallback, err := render("fallback", pick(task.Markers.Fallback, DefaultFallbackMarker), data)
	if err != nil {
		return Markers{}, fmt.Errorf("game '%s': %w", task.Key, err)
	}

	return Markers{
		Key:      task.Key,
		Name:     task.Name,
		Start:    start,
		End:      end,
		Fallback: fallback,
	}, nil
}

// ResolveAll renders markers for every game in configured order.
// Games whose templates fail to render fall back to the default phrases.
func ResolveAll(games config.GameList) []Markers {
	out := make([]Markers, 0, len(games))
	for _, g := range games {
		m, err := ResolveMarkers(g)
		if err != nil {
			g.Markers = config.Markers{}
			m, _ = ResolveMarkers(g)
		}
		out = append(out, m)
	}
	return out
}

func pick(custom, def string) string {
	if custom != "" {
		return custom
	}
	return def
}

// render executes a marker template in strict mode (fails on unknown fields)
func render(name, content string, data MarkerData) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(content)
	if err != nil {
		return "", fmt.Errorf("parse %s marker: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute %s marker: %w", name, err)
	}

	return buf.String(), nil
}
