package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fieldAsset = iota
	fieldAmount
	fieldPrice
	fieldCount
)

// holdingForm collects a new holding. Values are validated by the ledger,
// not here.
type holdingForm struct {
	inputs []textinput.Model
	focus  int
}

func newHoldingForm(defaultAsset string) holdingForm {
	f := holdingForm{inputs: make([]textinput.Model, fieldCount)}
	for i := range f.inputs {
		ti := textinput.New()
		ti.CharLimit = 24
		ti.Width = 16
		switch i {
		case fieldAsset:
			ti.Prompt = "Asset  "
			ti.Placeholder = "BTC"
			ti.SetValue(defaultAsset)
		case fieldAmount:
			ti.Prompt = "Amount "
			ti.Placeholder = "0.5"
		case fieldPrice:
			ti.Prompt = "Price  "
			ti.Placeholder = "45000"
		}
		f.inputs[i] = ti
	}
	f.inputs[fieldAsset].Focus()
	return f
}

func (f *holdingForm) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = ((f.focus+delta)%fieldCount + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

func (f *holdingForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f holdingForm) values() (asset, amount, price string) {
	return strings.ToUpper(strings.TrimSpace(f.inputs[fieldAsset].Value())),
		strings.TrimSpace(f.inputs[fieldAmount].Value()),
		strings.TrimSpace(f.inputs[fieldPrice].Value())
}

func (f holdingForm) view() string {
	lines := make([]string, 0, len(f.inputs))
	for _, in := range f.inputs {
		lines = append(lines, in.View())
	}
	return strings.Join(lines, "\n")
}
