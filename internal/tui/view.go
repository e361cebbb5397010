package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"kanny/internal/api"
	"kanny/internal/dnd"
)

const columnWidth = 24

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	faintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	columnStyle = lipgloss.NewStyle().
			Width(columnWidth).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	focusedColumnStyle = columnStyle.BorderForeground(lipgloss.Color("75"))
	deleteZoneStyle    = columnStyle.BorderForeground(lipgloss.Color("160"))

	cardStyle     = lipgloss.NewStyle().Width(columnWidth - 2)
	selectedStyle = cardStyle.
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62"))
	draggedStyle = cardStyle.Foreground(lipgloss.Color("240")).Italic(true)

	overlayStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("75"))
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
)

// View implements tea.Model.
func (model Model) View() string {
	var out strings.Builder

	b := model.store.Current()
	switch {
	case b == nil && model.store.Loading():
		out.WriteString(faintStyle.Render("Loading board..."))
	case b == nil:
		out.WriteString(faintStyle.Render("No board loaded."))
	default:
		header := titleStyle.Render(b.Name)
		if model.store.Loading() {
			header += " " + faintStyle.Render("(syncing)")
		}
		out.WriteString(header + "\n\n")
		if len(b.Columns) == 0 {
			out.WriteString(faintStyle.Render("No columns found."))
		} else {
			out.WriteString(model.renderColumns(b))
		}
	}
	out.WriteString("\n")

	if card, ok := model.drag.Active(); ok {
		out.WriteString(overlayStyle.Render(renderOverlay(card)) + "\n")
	}
	if card, ok := model.drag.PendingDelete(); ok {
		out.WriteString(promptStyle.Render(dnd.DeletePrompt) + " " + faintStyle.Render("("+card.Title+") [y/n]") + "\n")
	}
	if model.adding {
		out.WriteString(model.input.View() + "\n")
	}

	status := model.status
	if status == "" {
		status = model.store.Err()
	}
	if status != "" {
		out.WriteString(errorStyle.Render(status) + "\n")
	}

	out.WriteString(model.help.View(model.keys))
	return out.String()
}

func (model Model) renderColumns(b *api.Board) string {
	active, dragging := model.drag.Active()

	columns := make([]string, 0, len(b.Columns)+1)
	for ci, col := range b.Columns {
		focused := ci == model.col

		var body strings.Builder
		body.WriteString(titleStyle.Render(col.Name) + "\n")
		for i, card := range col.Cards {
			style := cardStyle
			switch {
			case dragging && card.ID == active.ID:
				style = draggedStyle
			case focused && i == model.row:
				style = selectedStyle
			}
			body.WriteString(style.Render(card.Title) + "\n")
		}
		if dragging && focused && model.row >= len(col.Cards) {
			body.WriteString(selectedStyle.Render("+ end of column") + "\n")
		}
		if len(col.Cards) == 0 && !(dragging && focused) {
			body.WriteString(faintStyle.Render("empty") + "\n")
		}

		style := columnStyle
		if focused {
			style = focusedColumnStyle
		}
		columns = append(columns, style.Render(strings.TrimSuffix(body.String(), "\n")))
	}

	zone := columnStyle
	if model.col == len(b.Columns) {
		zone = deleteZoneStyle
	}
	columns = append(columns, zone.Render(titleStyle.Render("Delete")+"\n"+faintStyle.Render("drop here to delete")))

	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func renderOverlay(card api.Card) string {
	text := titleStyle.Render(card.Title)
	if card.Description != nil && *card.Description != "" {
		text += "\n" + faintStyle.Render(*card.Description)
	}
	return text
}
