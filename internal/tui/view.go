package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdxmph/tasklist/internal/task"
)

// View renders the UI
func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress Esc to dismiss, q to quit.", m.err)
	}

	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Overlays replace the main screen
	if m.formMode {
		return m.renderForm()
	}
	if m.selectMode {
		return m.renderSelect()
	}
	if m.deleteConfirmMode {
		return m.renderDeleteConfirmation()
	}

	// Calculate pane widths
	listWidth := m.width / 3
	detailWidth := m.width - listWidth - 3 // account for borders

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.theme.border.Copy().Width(listWidth).Height(m.height-3).Render(m.renderList(listWidth, m.height-3)),
		m.theme.border.Copy().Width(detailWidth).Height(m.height-3).Render(m.renderDetail(detailWidth)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderHelp())
}

// stateMarker is the one-character state indicator shown in the list
func stateMarker(s task.State) string {
	switch s {
	case task.Done:
		return "✓"
	case task.InProgress:
		return "▸"
	case task.NotDone:
		return "•"
	}
	return " "
}

// renderList renders the task list
func (m Model) renderList(width, height int) string {
	var lines []string

	tasks := m.visibleTasks()

	header := m.theme.title.Render("My Tasks") + fmt.Sprintf(" (%d)", len(tasks))
	if m.view.Active() {
		header += " [" + m.view.Summary() + "]"
	}
	lines = append(lines, header)
	lines = append(lines, strings.Repeat("─", max(width-2, 0)))

	if len(m.tasks) == 0 {
		lines = append(lines, m.theme.dimmed.Render("You have no tasks"))
		return strings.Join(lines, "\n")
	}
	if len(tasks) == 0 {
		lines = append(lines, m.theme.dimmed.Render("No tasks match the current selection"))
		return strings.Join(lines, "\n")
	}

	// Calculate visible range
	visibleHeight := height - 2 // account for header
	startIdx := 0
	if m.selected >= visibleHeight {
		startIdx = m.selected - visibleHeight + 1
	}

	for i := startIdx; i < len(tasks) && i < startIdx+visibleHeight; i++ {
		t := tasks[i]

		if i == m.selected {
			line := stateMarker(t.State) + " " + t.Title
			if t.Deadline != "" {
				line += " " + t.Deadline
			}
			lines = append(lines, m.theme.selected.Render(line))
			continue
		}

		line := m.theme.stateStyle(string(t.State)).Render(stateMarker(t.State)) + " " + t.Title
		if t.Deadline != "" {
			line += " " + m.theme.dimmed.Render(t.Deadline)
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// renderDetail renders the selected task
func (m Model) renderDetail(width int) string {
	t, ok := m.current()
	if !ok {
		return m.theme.dimmed.Render("No task selected")
	}

	var lines []string
	lines = append(lines, m.theme.title.Render(t.Title))
	lines = append(lines, strings.Repeat("─", max(width-2, 0)))
	lines = append(lines, "")

	if t.Summary == "" {
		lines = append(lines, m.theme.dimmed.Render(t.SummaryText()))
	} else {
		lines = append(lines, wrapText(t.Summary, width-4)...)
	}
	lines = append(lines, "")

	if t.State != task.StateUnset {
		lines = append(lines, "State:    "+m.theme.stateStyle(string(t.State)).Render(string(t.State)))
	} else {
		lines = append(lines, "State:    "+m.theme.dimmed.Render("not set"))
	}

	if t.Deadline != "" {
		lines = append(lines, "Deadline: "+t.Deadline)
	} else {
		lines = append(lines, "Deadline: "+m.theme.dimmed.Render("none"))
	}

	return strings.Join(lines, "\n")
}

// renderHelp renders the help line
func (m Model) renderHelp() string {
	if m.status != "" {
		return " " + m.theme.errText.Render(m.status)
	}

	help := " j/k: navigate • n: new • e: edit • d: delete • f: filter • s: sort by state • o: sort by deadline"

	if m.view.Active() {
		help += " • C: clear all"
	}

	help += " • t: theme • q: quit"

	return help
}

// centered places box in the middle of the screen
func (m Model) centered(box string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(box)
}

// overlayBox wraps overlay content in a bordered box
func (m Model) overlayBox(content string, width int) string {
	style := m.theme.border.Copy().
		Padding(1).
		Background(m.theme.overlay)
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(content)
}

// renderForm renders the create/update form overlay
func (m Model) renderForm() string {
	var lines []string

	if m.formTaskID == 0 {
		lines = append(lines, m.theme.title.Render("New Task"))
	} else {
		lines = append(lines, m.theme.title.Render("Update task"))
	}
	lines = append(lines, strings.Repeat("─", 40))
	lines = append(lines, "")

	label := func(field int, text string) string {
		if field == m.formField {
			return lipgloss.NewStyle().Foreground(m.theme.accent).Render(text)
		}
		return text
	}

	lines = append(lines, label(FormFieldTitle, "Title *"))
	lines = append(lines, m.titleInput.View())
	lines = append(lines, "")

	lines = append(lines, label(FormFieldSummary, "Summary"))
	lines = append(lines, m.summaryInput.View())
	lines = append(lines, "")

	stateLabel := string(m.formState())
	if stateLabel == "" {
		stateLabel = "Task State"
	}
	lines = append(lines, label(FormFieldState, "State"))
	if m.formField == FormFieldState {
		lines = append(lines, m.theme.selected.Render(fmt.Sprintf("< %s >", stateLabel)))
	} else {
		lines = append(lines, fmt.Sprintf("  %s  ", stateLabel))
	}
	lines = append(lines, "")

	lines = append(lines, label(FormFieldDeadline, "Deadline"))
	lines = append(lines, m.deadlineInput.View())
	lines = append(lines, "")

	if m.formErr != "" {
		lines = append(lines, m.theme.errText.Render(m.formErr))
		lines = append(lines, "")
	}

	action := "create"
	if m.formTaskID != 0 {
		action = "update"
	}
	lines = append(lines, m.theme.dimmed.Render(
		"Tab: next field • Shift+Tab: previous • Ctrl+S: "+action+" • Esc: cancel"))

	return m.centered(m.overlayBox(strings.Join(lines, "\n"), 70))
}

// renderSelect renders the filter/sort selector overlay
func (m Model) renderSelect() string {
	var title, clearLabel string
	switch m.selectKind {
	case selectFilterState:
		title, clearLabel = "Filter by State", "all (clear filter)"
	case selectSortState:
		title, clearLabel = "Sort by State (selected state goes last)", "none (clear sort)"
	case selectSortDeadline:
		title, clearLabel = "Sort by Deadline", "none (clear sort)"
	}

	var lines []string
	lines = append(lines, title+":")
	lines = append(lines, "")

	for i, option := range m.selectOptions() {
		if option == "" {
			option = clearLabel
		}
		line := "  " + option
		if i == m.selectIdx {
			line = m.theme.selected.Render(line)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "")
	lines = append(lines, "Press Enter to confirm, Esc to cancel")

	return m.centered(m.overlayBox(strings.Join(lines, "\n"), 0))
}

// renderDeleteConfirmation renders the delete confirmation prompt
func (m Model) renderDeleteConfirmation() string {
	var title string
	for _, t := range m.tasks {
		if t.ID == m.deleteTaskID {
			title = t.Title
			break
		}
	}

	width := 60
	height := 7

	prompt := fmt.Sprintf("Delete task '%s'? (y/n)", title)

	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-4).
		Align(lipgloss.Center, lipgloss.Center).
		Render(prompt)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.accent).
		Width(width).
		Height(height).
		Render(content)

	return m.centered(box)
}

// wrapText wraps text to fit within the specified width
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		currentLine := words[0]
		for _, word := range words[1:] {
			if len(currentLine)+1+len(word) <= width {
				currentLine += " " + word
			} else {
				lines = append(lines, currentLine)
				currentLine = word
			}
		}
		lines = append(lines, currentLine)
	}

	return lines
}
