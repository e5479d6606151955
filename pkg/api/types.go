package api

import (
	"github.com/rmax-ai/velnode/pkg/template"
	"github.com/rmax-ai/velnode/pkg/value"
)

// TemplateInfo describes one catalog entry for /v1/templates.
type TemplateInfo struct {
	Slug    string     `json:"slug"`
	Label   string     `json:"label"`
	Inputs  []PortInfo `json:"inputs"`
	Outputs []PortInfo `json:"outputs"`
}

type PortInfo struct {
	Name    string         `json:"name"`
	Type    value.DataType `json:"type"`
	Color   string         `json:"color"`
	Default *value.Value   `json:"default,omitempty"`
}

// Templates lists the catalog in finder order.
func Templates() []TemplateInfo {
	all := template.All()
	out := make([]TemplateInfo, 0, len(all))
	for _, t := range all {
		info := TemplateInfo{Slug: t.Slug(), Label: t.Label()}
		for _, p := range t.Inputs() {
			def := p.Default
			info.Inputs = append(info.Inputs, PortInfo{Name: p.Name, Type: p.Type, Color: p.Type.Color().Hex(), Default: &def})
		}
		for _, p := range t.Outputs() {
			info.Outputs = append(info.Outputs, PortInfo{Name: p.Name, Type: p.Type, Color: p.Type.Color().Hex()})
		}
		out = append(out, info)
	}
	return out
}
