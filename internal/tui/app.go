package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdxmph/tasklist/internal/kv"
	"github.com/pdxmph/tasklist/internal/task"
)

// Model represents the main application state
type Model struct {
	store    *task.Store
	prefs    kv.Store
	tasks    []task.Task
	view     task.View
	selected int
	width    int
	height   int
	theme    Theme
	status   string
	err      error

	// Form mode (create when formTaskID is zero, update otherwise)
	formMode      bool
	formTaskID    int64
	formField     int
	formStateIdx  int
	formStateSet  bool       // state field was changed since the form opened
	formOrigState task.State // state of the task being edited
	formErr       string
	titleInput    textinput.Model
	summaryInput  textarea.Model
	deadlineInput textinput.Model

	// Selector mode for the filter and sort criteria
	selectMode bool
	selectKind selector
	selectIdx  int

	// Delete confirmation mode
	deleteConfirmMode bool
	deleteTaskID      int64
}

// Form field indices
const (
	FormFieldTitle = iota
	FormFieldSummary
	FormFieldState
	FormFieldDeadline
	FormFieldCount // Total number of fields
)

// formStates are the choices of the form's state field; index 0 leaves it unset
var formStates = append([]task.State{task.StateUnset}, task.States...)

type selector int

const (
	selectFilterState selector = iota
	selectSortState
	selectSortDeadline
)

// New creates a new application model over an already loaded store.
// prefs holds the color scheme; defaultScheme is used until one is stored.
func New(store *task.Store, prefs kv.Store, defaultScheme string) (*Model, error) {
	scheme := defaultScheme
	if prefs != nil {
		stored, ok, err := prefs.Get(ColorSchemeKey)
		if err != nil {
			return nil, fmt.Errorf("loading color scheme: %w", err)
		}
		if ok {
			scheme = string(stored)
		}
	}

	ti := textinput.New()
	ti.Placeholder = "Task Title"
	ti.Width = 40
	ti.CharLimit = 200

	ta := textarea.New()
	ta.Placeholder = "Task Summary"
	ta.SetHeight(4)
	ta.SetWidth(40)
	ta.CharLimit = 1000
	ta.ShowLineNumbers = false

	di := textinput.New()
	di.Placeholder = "YYYY-MM-DD"
	di.Width = 12
	di.CharLimit = len(task.DateLayout)

	return &Model{
		store:         store,
		prefs:         prefs,
		tasks:         store.Tasks(),
		theme:         ThemeFor(scheme),
		titleInput:    ti,
		summaryInput:  ta,
		deadlineInput: di,
	}, nil
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.err != nil {
			return m.updateError(msg)
		}
		if m.deleteConfirmMode {
			return m.updateDeleteConfirm(msg)
		}
		if m.formMode {
			return m.updateForm(msg)
		}
		if m.selectMode {
			return m.updateSelect(msg)
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

// updateError handles keys while the error screen is shown; everything but
// dismiss and quit is dropped
func (m Model) updateError(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.err = nil
		m.status = ""
	}
	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.status = ""

	case "j", "down":
		if m.selected < len(m.visibleTasks())-1 {
			m.selected++
		}

	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}

	case "n":
		return m.openForm(nil)

	case "e", "enter":
		if t, ok := m.current(); ok {
			return m.openForm(&t)
		}

	case "d":
		if t, ok := m.current(); ok {
			m.deleteConfirmMode = true
			m.deleteTaskID = t.ID
		}

	case "f":
		m.openSelect(selectFilterState)
	case "s":
		m.openSelect(selectSortState)
	case "o":
		m.openSelect(selectSortDeadline)

	case "C":
		m.view = m.view.Clear()
		m.selected = m.ensureValidSelection()

	case "t", "ctrl+j":
		m.theme = m.theme.toggled()
		if m.prefs != nil {
			if err := m.prefs.Set(ColorSchemeKey, []byte(m.theme.Name)); err != nil {
				m.status = fmt.Sprintf("saving color scheme: %v", err)
			}
		}
	}

	return m, nil
}

func (m Model) updateDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if err := m.store.Delete(m.deleteTaskID); err != nil {
			m.err = err
		} else {
			m.reload()
		}
	}
	// Any other key cancels
	m.deleteConfirmMode = false
	m.deleteTaskID = 0
	return m, nil
}

// openForm shows the task form. With a task it is filled from that task and
// saving updates it; without one saving creates a new task.
func (m Model) openForm(t *task.Task) (tea.Model, tea.Cmd) {
	m.formMode = true
	m.formErr = ""
	m.formTaskID = 0
	m.formStateIdx = 0
	m.formStateSet = false
	m.formOrigState = task.StateUnset
	m.titleInput.Reset()
	m.summaryInput.Reset()
	m.deadlineInput.Reset()

	if t != nil {
		m.formTaskID = t.ID
		m.formOrigState = t.State
		m.titleInput.SetValue(t.Title)
		m.summaryInput.SetValue(t.Summary)
		m.deadlineInput.SetValue(t.Deadline)
		for i, s := range formStates {
			if s == t.State {
				m.formStateIdx = i
				break
			}
		}
	}

	if m.width > 0 {
		inputWidth := max(min(m.width-30, 60), 20)
		m.titleInput.Width = inputWidth
		m.summaryInput.SetWidth(inputWidth)
	}

	cmd := m.focusField(FormFieldTitle)
	return m, cmd
}

func (m *Model) closeForm() {
	m.formMode = false
	m.formField = 0
	m.formErr = ""
	m.titleInput.Blur()
	m.summaryInput.Blur()
	m.deadlineInput.Blur()
}

func (m *Model) focusField(field int) tea.Cmd {
	m.titleInput.Blur()
	m.summaryInput.Blur()
	m.deadlineInput.Blur()
	m.formField = field

	switch field {
	case FormFieldTitle:
		return m.titleInput.Focus()
	case FormFieldSummary:
		return m.summaryInput.Focus()
	case FormFieldDeadline:
		return m.deadlineInput.Focus()
	}
	return nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeForm()
		return m, nil

	case "ctrl+s":
		return m.saveForm()

	case "tab":
		var cmd tea.Cmd
		if m.formField < FormFieldCount-1 {
			cmd = m.focusField(m.formField + 1)
		}
		return m, cmd

	case "shift+tab":
		var cmd tea.Cmd
		if m.formField > 0 {
			cmd = m.focusField(m.formField - 1)
		}
		return m, cmd

	case "enter":
		switch m.formField {
		case FormFieldTitle:
			cmd := m.focusField(FormFieldSummary)
			return m, cmd
		case FormFieldState:
			m.cycleState(1)
			return m, nil
		case FormFieldDeadline:
			return m.saveForm()
		}

	case "left", "right", " ":
		if m.formField == FormFieldState {
			if msg.String() == "left" {
				m.cycleState(-1)
			} else {
				m.cycleState(1)
			}
			return m, nil
		}
	}

	// Update the active input
	var cmd tea.Cmd
	switch m.formField {
	case FormFieldTitle:
		m.titleInput, cmd = m.titleInput.Update(msg)
	case FormFieldSummary:
		m.summaryInput, cmd = m.summaryInput.Update(msg)
	case FormFieldDeadline:
		m.deadlineInput, cmd = m.deadlineInput.Update(msg)
	}
	return m, cmd
}

// cycleState steps the form's state choice by delta, wrapping around
func (m *Model) cycleState(delta int) {
	m.formStateIdx = (m.formStateIdx + delta + len(formStates)) % len(formStates)
	m.formStateSet = true
}

// formState is the state the form would save. Until the field is changed an
// edited task keeps its stored state, even one outside formStates.
func (m Model) formState() task.State {
	if !m.formStateSet && m.formTaskID != 0 {
		return m.formOrigState
	}
	return formStates[m.formStateIdx]
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(m.titleInput.Value())
	summary := m.summaryInput.Value()
	state := m.formState()
	deadline := strings.TrimSpace(m.deadlineInput.Value())

	var (
		saved task.Task
		err   error
	)
	if m.formTaskID == 0 {
		saved, err = m.store.Create(title, summary, state, deadline)
	} else {
		saved, err = m.store.Update(m.formTaskID, title, summary, state, deadline)
	}

	if errors.Is(err, task.ErrValidation) {
		// Keep the form open so the user can fix it
		m.formErr = err.Error()
		cmd := m.focusField(FormFieldTitle)
		return m, cmd
	}

	m.closeForm()
	if err != nil {
		m.err = err
		return m, nil
	}

	m.reload()
	m.selectTask(saved.ID)
	return m, nil
}

func (m *Model) openSelect(kind selector) {
	m.selectMode = true
	m.selectKind = kind
	m.selectIdx = 0

	current := ""
	switch kind {
	case selectFilterState:
		current = string(m.view.FilterState)
	case selectSortState:
		current = string(m.view.SortState)
	case selectSortDeadline:
		current = string(m.view.SortDeadline)
	}
	if current == "" {
		return
	}
	for i, option := range m.selectOptions() {
		if option == current {
			m.selectIdx = i
			break
		}
	}
}

// selectOptions lists the choices of the open selector; index 0 clears it
func (m Model) selectOptions() []string {
	options := []string{""}
	if m.selectKind == selectSortDeadline {
		for _, d := range task.DeadlineSorts {
			options = append(options, string(d))
		}
		return options
	}
	for _, s := range task.States {
		options = append(options, string(s))
	}
	return options
}

func (m Model) updateSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	options := m.selectOptions()

	switch msg.String() {
	case "esc":
		m.selectMode = false
		m.selectIdx = 0
	case "enter":
		choice := options[m.selectIdx]
		switch m.selectKind {
		case selectFilterState:
			m.view = m.view.WithFilterState(task.State(choice))
		case selectSortState:
			m.view = m.view.WithSortState(task.State(choice))
		case selectSortDeadline:
			m.view = m.view.WithSortDeadline(task.DeadlineSort(choice))
		}
		m.selectMode = false
		m.selectIdx = 0
		m.selected = m.ensureValidSelection()
	case "j", "down":
		if m.selectIdx < len(options)-1 {
			m.selectIdx++
		}
	case "k", "up":
		if m.selectIdx > 0 {
			m.selectIdx--
		}
	}
	return m, nil
}

// visibleTasks returns the tasks in display order under the current selections
func (m Model) visibleTasks() []task.Task {
	return m.view.Apply(m.tasks)
}

// current returns the task under the cursor
func (m Model) current() (task.Task, bool) {
	tasks := m.visibleTasks()
	if len(tasks) == 0 || m.selected >= len(tasks) {
		return task.Task{}, false
	}
	return tasks[m.selected], true
}

// reload refreshes the cached list from the store
func (m *Model) reload() {
	m.tasks = m.store.Tasks()
	m.selected = m.ensureValidSelection()
}

// selectTask moves the cursor to the task with the given id, if it is visible
func (m *Model) selectTask(id int64) {
	for i, t := range m.visibleTasks() {
		if t.ID == id {
			m.selected = i
			return
		}
	}
}

// ensureValidSelection ensures the current selection is within bounds
func (m Model) ensureValidSelection() int {
	tasks := m.visibleTasks()
	if len(tasks) == 0 {
		return 0
	}
	if m.selected >= len(tasks) {
		return len(tasks) - 1
	}
	if m.selected < 0 {
		return 0
	}
	return m.selected
}
