package ui

import (
	"context"
	"fmt"
	"strings"

	"carsync/internal/geo"
	"carsync/internal/model"
	"carsync/internal/store"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"
)

// Model is the root Bubble Tea model. It is the only place store intents are
// raised and task results applied, so the store stays on one goroutine.
type Model struct {
	ctx              context.Context
	store            *store.Store
	logger           *log.Entry
	termCapabilities TerminalCapabilities
	baseURL          string
	screen           model.Screen
	mode             model.Mode
	gState           GState

	width  int
	height int

	opErr       string
	info        string
	showingHelp bool

	cars    *CarsModel
	carMap  *MapModel
	carForm *CarFormModel
	editor  *inlineEditor

	keys      KeyMap
	formKeys  FormKeyMap
	prefsPath string
	prefs     UIPreferences
	undoStack []undoAction
	redoStack []undoAction
}

// Options configures the root model.
type Options struct {
	BaseURL   string
	PrefsPath string
	TermCaps  TerminalCapabilities
	Logger    *log.Entry
}

// taskDoneMsg carries a resolved store task back to the update loop.
type taskDoneMsg struct {
	result store.Result
	action *undoAction
	origin origin
}

// New creates a new root model around s.
func New(s *store.Store, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	prefs := loadUIPreferences(opts.PrefsPath)
	s.RestoreSort(prefs.Cars.SortKey, prefs.Cars.SortOrder)

	return Model{
		ctx:              context.Background(),
		store:            s,
		logger:           logger.WithField("component", "ui"),
		termCapabilities: opts.TermCaps,
		baseURL:          opts.BaseURL,
		screen:           model.ScreenCars,
		mode:             model.ModeNav,
		gState:           GStateIdle,
		cars:             NewCarsModel(),
		carMap:           NewMapModel(),
		keys:             DefaultKeyMap(),
		formKeys:         DefaultFormKeyMap(),
		prefsPath:        opts.PrefsPath,
		prefs:            prefs,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.run(m.store.FetchAll(), nil, originUser)
}

// run turns a store task into a command. The task runs off the update loop and
// only its result comes back.
func (m Model) run(task store.Task, action *undoAction, o origin) tea.Cmd {
	if task == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return taskDoneMsg{result: task(ctx), action: action, origin: o}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.mode == model.ModeNav && key.Matches(msg, m.keys.Help) {
			m.showingHelp = !m.showingHelp
			return m, nil
		}

		if m.showingHelp {
			if msg.String() == "esc" || msg.String() == "?" {
				m.showingHelp = false
			}
			return m, nil
		}

		switch m.mode {
		case model.ModeInsert:
			return m.handleInsertMode(msg)
		case model.ModeInlineEdit:
			return m.handleInlineEditMode(msg)
		}
		return m.handleNavMode(msg)

	case taskDoneMsg:
		cmd := m.applyResult(msg)
		return m, cmd

	case model.CarSubmittedMsg:
		m.info = fmt.Sprintf("Adding %s %s...", msg.Draft.Name, msg.Draft.Model)
		m.opErr = ""
		return m, m.run(m.store.Create(msg.Draft), nil, originUser)

	case model.FormCancelledMsg:
		m.mode = model.ModeNav
		m.screen = model.ScreenCars
		m.carForm = nil
		return m, nil

	case model.ErrorMsg:
		m.opErr = msg.Err.Error()
		return m, nil
	}

	return m, nil
}

func (m *Model) applyResult(msg taskDoneMsg) tea.Cmd {
	r := msg.result
	err := m.store.Apply(r)
	m.cars.SetRows(m.store.Rows())

	if msg.action != nil {
		m.settleAction(msg.action, msg.origin, r, err)
		if msg.origin != originUser {
			return nil
		}
	}

	if err != nil {
		m.info = ""
		m.opErr = fmt.Sprintf("%s failed: %v", opVerb(r.Op), err)
		return nil
	}

	switch {
	case r.Op == store.OpCreate && r.Status == store.StatusOK:
		m.info = fmt.Sprintf("Added %s %s", r.Car.Name, r.Car.Model)
	case r.Op == store.OpUpdate && r.Status == store.StatusOK:
		m.info = fmt.Sprintf("Saved %s", r.Car.Name)
	case r.Op == store.OpRemove && r.Status == store.StatusOK:
		m.info = "Car deleted (u to undo)"
	}
	return nil
}

func opVerb(op store.Op) string {
	switch op {
	case store.OpCreate:
		return "Create"
	case store.OpUpdate:
		return "Save"
	case store.OpRemove:
		return "Delete"
	default:
		return "Fetch"
	}
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	var content string
	var breadcrumbParts []string

	showTabs := m.screen == model.ScreenCars || m.screen == model.ScreenMap

	// Header and footer take a line each, tabs two more.
	contentHeight := m.height - 4
	if showTabs {
		contentHeight -= 2
	}

	var banners []string
	if m.opErr != "" {
		banners = append(banners, ErrorStyle.Width(m.width).Render(m.opErr))
	}
	if m.info != "" {
		banners = append(banners, SuccessStyle.Width(m.width).Render(m.info))
	}
	contentHeight -= len(banners)

	switch m.screen {
	case model.ScreenCars:
		breadcrumbParts = []string{"Cars"}
		content = m.carsView(contentHeight)
	case model.ScreenMap:
		breadcrumbParts = []string{"Map"}
		content = m.carMap.View(m.store.Cars(), m.termCapabilities, m.width, contentHeight)
	case model.ScreenCarForm:
		breadcrumbParts = []string{"Cars", "New"}
		if m.carForm != nil {
			content = m.carForm.View(m.width, contentHeight)
		}
	}

	header := renderHeader(breadcrumbParts, m.baseURL, m.width)
	footer := RenderHelp(m.screen, m.mode, m.width)

	content = lipgloss.NewStyle().
		Width(m.width).
		Height(max(0, contentHeight)).
		Render(content)

	parts := []string{header}
	if showTabs {
		parts = append(parts, renderTabs(m.screen, m.width))
	}
	parts = append(parts, banners...)
	parts = append(parts, content, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// carsView shows the loading line or the list error in place of the table.
func (m Model) carsView(height int) string {
	switch {
	case m.store.Loading():
		return EmptyStateStyle.Width(m.width).Render("Loading...")
	case m.store.Err() != "":
		return ErrorStyle.Width(m.width).Render("Error: " + m.store.Err())
	}
	s := m.store
	return m.cars.View(m.width, height, tableState{
		sortKey:   s.SortKey(),
		sortOrder: s.SortOrder(),
		editor:    m.editor,
		hasDraft: func(id model.ID) bool {
			_, ok := s.Draft(id)
			return ok
		},
	})
}

func renderTabs(screen model.Screen, width int) string {
	tabs := []struct {
		name   string
		screen model.Screen
	}{
		{"Cars", model.ScreenCars},
		{"Map", model.ScreenMap},
	}

	var tabStrings []string
	for _, tab := range tabs {
		tabStyle := lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(ColorMuted)

		if screen == tab.screen {
			tabStyle = tabStyle.
				Foreground(ColorText).
				Bold(true).
				Underline(true)
		}

		tabStrings = append(tabStrings, tabStyle.Render(tab.name))
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Left, tabStrings...)
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		Render(tabBar)
}

func renderHeader(breadcrumbParts []string, baseURL string, width int) string {
	title := HeaderStyle.Render("carsync")

	var breadcrumb string
	if len(breadcrumbParts) > 0 {
		separator := BreadcrumbStyle.Render(" › ")
		parts := make([]string, len(breadcrumbParts))
		for i, part := range breadcrumbParts {
			if i == len(breadcrumbParts)-1 {
				parts[i] = BreadcrumbActiveStyle.Render(part)
			} else {
				parts[i] = BreadcrumbStyle.Render(part)
			}
		}
		breadcrumb = separator + strings.Join(parts, separator)
	}

	left := "  " + title + breadcrumb
	right := BreadcrumbStyle.Render(baseURL) + "  "

	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	headerContent := left + strings.Repeat(" ", padding) + right
	return TitleStyle.Width(width).Render(headerContent)
}

// handleNavMode handles navigation mode input.
func (m Model) handleNavMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Undo):
		if len(m.undoStack) == 0 {
			m.info = "Nothing to undo"
			return m, nil
		}
		m.opErr = ""
		cmd := m.undoCmd()
		return m, cmd
	case key.Matches(msg, m.keys.Redo):
		if len(m.redoStack) == 0 {
			m.info = "Nothing to redo"
			return m, nil
		}
		m.opErr = ""
		cmd := m.redoCmd()
		return m, cmd
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextTab), key.Matches(msg, m.keys.PrevTab):
		if m.screen == model.ScreenCars {
			m.screen = model.ScreenMap
		} else {
			m.screen = model.ScreenCars
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		m.opErr = ""
		m.info = ""
		return m, m.run(m.store.FetchAll(), nil, originUser)
	case key.Matches(msg, m.keys.Add):
		m.mode = model.ModeInsert
		m.screen = model.ScreenCarForm
		m.carForm = NewCarFormModel()
		return m, nil
	}

	// "gg" jumps to the top; any other key resets the state.
	if key.Matches(msg, m.keys.Top) {
		if m.gState == GStateIdle {
			m.gState = GStateFirstG
			return m, nil
		}
		m.gState = GStateIdle
		if m.screen == model.ScreenCars {
			m.cars.JumpToTop()
		}
		return m, nil
	}
	m.gState = GStateIdle

	switch m.screen {
	case model.ScreenCars:
		return m.handleCarsNav(msg)
	case model.ScreenMap:
		return m.handleMapNav(msg)
	}
	return m, nil
}

func (m Model) handleCarsNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.cars.MoveDown()
	case key.Matches(msg, m.keys.Up):
		m.cars.MoveUp()
	case key.Matches(msg, m.keys.Bottom):
		m.cars.JumpToBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.cars.HalfPageDown(m.height / 2)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.cars.HalfPageUp(m.height / 2)
	case key.Matches(msg, m.keys.SortYear):
		cmd := m.selectSort(model.SortYear)
		return m, cmd
	case key.Matches(msg, m.keys.SortPrice):
		cmd := m.selectSort(model.SortPrice)
		return m, cmd
	case key.Matches(msg, m.keys.Edit):
		car, ok := m.cars.Selected()
		if !ok {
			return m, nil
		}
		m.store.BeginEdit(car.ID)
		display, _ := m.store.Display(car.ID)
		m.editor = newInlineEditor(display)
		m.mode = model.ModeInlineEdit
		m.opErr = ""
		m.info = ""
	case key.Matches(msg, m.keys.Delete):
		car, ok := m.cars.Selected()
		if !ok {
			return m, nil
		}
		action := m.buildDeleteAction(m.canonical(car.ID))
		m.opErr = ""
		m.info = fmt.Sprintf("Deleting %s...", car.Name)
		return m, m.run(m.store.Remove(car.ID), &action, originUser)
	}
	return m, nil
}

func (m Model) handleMapNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.carMap.MoveDown(len(geo.Markers(m.store.Cars())))
	case key.Matches(msg, m.keys.Up):
		m.carMap.MoveUp()
	}
	return m, nil
}

func (m *Model) selectSort(sortKey model.SortKey) tea.Cmd {
	m.store.SelectSort(sortKey)
	m.cars.SetRows(m.store.Rows())
	m.info = fmt.Sprintf("Sorted by %s (%s)", sortKey, m.store.SortOrder())
	m.prefs.Cars = TablePrefs{SortKey: m.store.SortKey(), SortOrder: m.store.SortOrder()}
	path, prefs := m.prefsPath, m.prefs
	return func() tea.Msg {
		if err := saveUIPreferences(path, prefs); err != nil {
			return model.ErrorMsg{Err: err}
		}
		return nil
	}
}

// canonical returns the stored record for id without buffered edits.
func (m Model) canonical(id model.ID) model.Car {
	for _, c := range m.store.Cars() {
		if c.ID == id {
			return c
		}
	}
	return model.Car{ID: id}
}

// handleInsertMode handles create form input.
func (m Model) handleInsertMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.carForm == nil {
		m.mode = model.ModeNav
		return m, nil
	}
	newForm, cmd := m.carForm.Update(msg)
	m.carForm = &newForm
	return m, cmd
}

// handleInlineEditMode routes keys to the row editor. Every change is
// buffered in the store as a draft until it is saved or cancelled.
func (m Model) handleInlineEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editor == nil {
		m.mode = model.ModeNav
		return m, nil
	}
	id := m.editor.id

	switch {
	case key.Matches(msg, m.formKeys.Cancel):
		m.store.CancelEdit()
		m.editor = nil
		m.mode = model.ModeNav
		m.cars.SetRows(m.store.Rows())
		m.info = "Edit cancelled"
		return m, nil
	case key.Matches(msg, m.formKeys.Save), msg.Type == tea.KeyEnter:
		if m.editor.err != "" {
			return m, nil
		}
		before := m.canonical(id)
		after, ok := m.store.Display(id)
		task := m.store.SaveEdit(id)
		m.editor = nil
		m.mode = model.ModeNav
		m.cars.SetRows(m.store.Rows())
		if !ok || task == nil {
			m.opErr = "Save failed: car no longer exists"
			return m, nil
		}
		action := m.buildUpdateAction(before, after)
		m.info = fmt.Sprintf("Saving %s...", after.Name)
		return m, m.run(task, &action, originUser)
	case key.Matches(msg, m.formKeys.NextField), key.Matches(msg, m.formKeys.PrevField):
		m.editor.nextField()
		return m, nil
	}

	field, prev := m.editor.current()
	_, value, cmd := m.editor.Update(msg)
	if value == prev {
		return m, cmd
	}
	if err := m.store.ApplyInlineEdit(id, field, value); err != nil {
		m.editor.err = err.Error()
	} else {
		m.editor.err = ""
	}
	m.cars.SetRows(m.store.Rows())
	return m, cmd
}
