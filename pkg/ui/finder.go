package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/rmax-ai/velnode/pkg/template"
)

// finderItem adapts a Template to list.Item.
type finderItem struct {
	t template.Template
}

func (i finderItem) Title() string       { return i.t.Label() }
func (i finderItem) FilterValue() string { return i.t.Label() }

func (i finderItem) Description() string {
	var ins []string
	for _, p := range i.t.Inputs() {
		ins = append(ins, fmt.Sprintf("%s:%s", p.Name, p.Type.String()))
	}
	var outs []string
	for _, p := range i.t.Outputs() {
		outs = append(outs, fmt.Sprintf("%s:%s", p.Name, p.Type.String()))
	}
	return fmt.Sprintf("(%s) -> (%s)", strings.Join(ins, ", "), strings.Join(outs, ", "))
}

// Finder is the node finder: a filterable list of every template in catalog
// order.
type Finder struct {
	list list.Model
}

func NewFinder(width, height int) Finder {
	all := template.All()
	items := make([]list.Item, len(all))
	for i, t := range all {
		items[i] = finderItem{t: t}
	}
	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = "Add node"
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return Finder{list: l}
}

// Selected returns the highlighted template.
func (f Finder) Selected() (template.Template, bool) {
	item, ok := f.list.SelectedItem().(finderItem)
	if !ok {
		return 0, false
	}
	return item.t, true
}

// Filtering reports whether the user is typing a filter, in which case
// enter and esc belong to the list.
func (f Finder) Filtering() bool {
	return f.list.FilterState() == list.Filtering
}

func (f *Finder) SetSize(width, height int) {
	f.list.SetSize(width, height)
}

func (f *Finder) Reset() {
	f.list.ResetFilter()
	f.list.Select(0)
}

func (f Finder) View() string { return f.list.View() }
