package tui

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dailies/internal/constants"
	"github.com/julianstephens/dailies/internal/dayview"
	"github.com/julianstephens/dailies/internal/hobbies"
	"github.com/julianstephens/dailies/internal/models"
	"github.com/julianstephens/dailies/internal/progress"
)

const minuteStep = 5

// changedMsg is sent when the tracker publishes a change
type changedMsg struct{}

// debounceMsg fires after a page change settles. Only the latest seq loads.
type debounceMsg struct {
	seq int
}

type loadedMsg struct {
	day  string
	view dayview.View
	err  error
}

// toggledMsg reports a finished background check write. exercise is empty
// for plain items.
type toggledMsg struct {
	day      string
	item     string
	exercise string
	result   progress.WriteResult
}

type hobbyLogMsg struct {
	day string
	log models.HobbyLog
	err error
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.bar.Width = min(max(msg.Width-20, 10), 60)
		return m, nil

	case changedMsg:
		cmd := m.debounce()
		return m, cmd

	case debounceMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		return m, m.load()

	case loadedMsg:
		return m.applyLoaded(msg), nil

	case toggledMsg:
		return m.applyToggled(msg), nil

	case hobbyLogMsg:
		return m.applyHobbyLog(msg), nil
	}

	if m.state == StateAddHobby {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Matches(keyMsg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	if key.Matches(keyMsg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	m.errMsg = ""
	switch m.state {
	case StateWelcome:
		if key.Matches(keyMsg, m.keys.Toggle, m.keys.Back) {
			m.state = StateDay
		}
		return m, nil
	case StateHobbies:
		return m.updateHobbies(keyMsg)
	}
	return m.updateDay(keyMsg)
}

func (m Model) updateDay(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.lines)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.PrevDay):
		if m.index > 0 {
			return m.page(m.index - 1)
		}
	case key.Matches(msg, m.keys.NextDay):
		if m.index < len(m.days)-1 {
			return m.page(m.index + 1)
		}
	case key.Matches(msg, m.keys.Today):
		if m.index != len(m.days)-1 {
			return m.page(len(m.days) - 1)
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()
	case key.Matches(msg, m.keys.Toggle):
		return m.toggle()
	}
	return m, nil
}

// page moves to another day. The list is cleared right away and loaded once
// paging pauses.
func (m Model) page(index int) (Model, tea.Cmd) {
	m.index = index
	m.loaded = false
	m.loading = true
	m.view = dayview.View{}
	m.lines = nil
	m.cursor = 0
	m.loadErr = nil
	cmd := m.debounce()
	return m, cmd
}

func (m *Model) debounce() tea.Cmd {
	m.seq++
	seq := m.seq
	return tea.Tick(constants.ProgressDebounce, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

func (m Model) load() tea.Cmd {
	ctx, src, uid, day := m.ctx, m.sources(), m.opts.UserID, m.Day()
	return func() tea.Msg {
		view, err := dayview.Load(ctx, src, uid, day)
		return loadedMsg{day: day, view: view, err: err}
	}
}

func (m Model) applyLoaded(msg loadedMsg) Model {
	if msg.day != m.Day() {
		return m
	}
	m.loading = false
	if msg.err != nil {
		m.loadErr = msg.err
		return m
	}

	m.loaded = true
	m.loadErr = nil
	m.view = msg.view
	m.lines = buildLines(msg.view)
	if m.cursor >= len(m.lines) {
		m.cursor = max(len(m.lines)-1, 0)
	}
	if m.state == StateHobbies && m.hobbyRow >= len(m.view.Rows) {
		m.state = StateDay
	}
	return m
}

func (m Model) current() (line, bool) {
	if !m.loaded || m.cursor >= len(m.lines) {
		return line{}, false
	}
	return m.lines[m.cursor], true
}

// cloneRows copies the rows so an optimistic edit does not reach earlier
// copies of the model.
func cloneRows(rows []dayview.Row) []dayview.Row {
	out := slices.Clone(rows)
	for i := range out {
		out[i].Exercises = slices.Clone(rows[i].Exercises)
	}
	return out
}

func allChecked(exercises []dayview.Exercise) bool {
	for _, ex := range exercises {
		if !ex.Checked {
			return false
		}
	}
	return true
}

// toggle flips the line under the cursor immediately and saves in the
// background. A failed save is reverted when its toggledMsg arrives.
func (m Model) toggle() (Model, tea.Cmd) {
	ln, ok := m.current()
	if !ok {
		return m, nil
	}
	row := m.view.Rows[ln.row]

	switch {
	case ln.exercise >= 0:
		m.view.Rows = cloneRows(m.view.Rows)
		r := &m.view.Rows[ln.row]
		ex := &r.Exercises[ln.exercise]
		ex.Checked = !ex.Checked
		r.Checked = allChecked(r.Exercises)
		pending := m.opts.Tracker.ToggleExercise(m.ctx, m.opts.UserID, r.Period, ex.Name, m.Day(), ex.Checked)
		return m, waitFor(pending, m.Day(), r.Item.ID, ex.Name)

	case row.Kind == progress.KindPlain:
		m.view.Rows = cloneRows(m.view.Rows)
		r := &m.view.Rows[ln.row]
		r.Checked = !r.Checked
		pending := m.opts.Tracker.ToggleObjective(m.ctx, m.opts.UserID, r.Item.ID, m.Day(), r.Checked)
		return m, waitFor(pending, m.Day(), r.Item.ID, "")

	case row.Kind == progress.KindHobbyGroup:
		m.state = StateHobbies
		m.hobbyRow = ln.row
		m.hobbyCursor = 0
		return m, nil

	default:
		if len(row.Exercises) == 0 {
			m.errMsg = "No exercises selected. Run 'dailies exercises set' to add some."
		}
		return m, nil
	}
}

func waitFor(pending *progress.PendingWrite, day, item, exercise string) tea.Cmd {
	return func() tea.Msg {
		return toggledMsg{day: day, item: item, exercise: exercise, result: pending.Wait()}
	}
}

func (m Model) applyToggled(msg toggledMsg) Model {
	if !msg.result.Failed() || msg.day != m.Day() || !m.loaded {
		return m
	}

	m.view.Rows = cloneRows(m.view.Rows)
	for i := range m.view.Rows {
		r := &m.view.Rows[i]
		if r.Item.ID != msg.item {
			continue
		}
		if msg.exercise == "" {
			r.Checked = !msg.result.Checked
			break
		}
		for j := range r.Exercises {
			if r.Exercises[j].Name == msg.exercise {
				r.Exercises[j].Checked = !msg.result.Checked
			}
		}
		r.Checked = allChecked(r.Exercises)
		break
	}
	m.errMsg = fmt.Sprintf("Couldn't save %s. Please try again.", msg.item)
	return m
}

func (m Model) hobbyGroup() (dayview.Row, bool) {
	if !m.loaded || m.hobbyRow >= len(m.view.Rows) {
		return dayview.Row{}, false
	}
	return m.view.Rows[m.hobbyRow], true
}

func (m Model) updateHobbies(msg tea.KeyMsg) (Model, tea.Cmd) {
	row, ok := m.hobbyGroup()
	if !ok || key.Matches(msg, m.keys.Back) {
		m.state = StateDay
		return m, nil
	}
	entries := row.Hobby.Entries

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.hobbyCursor > 0 {
			m.hobbyCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.hobbyCursor < len(entries)-1 {
			m.hobbyCursor++
		}
	case key.Matches(msg, m.keys.Add):
		return m.openHobbyForm()
	case key.Matches(msg, m.keys.More, m.keys.Less):
		if m.hobbyCursor >= len(entries) {
			return m, nil
		}
		minutes := entries[m.hobbyCursor].Minutes + minuteStep
		if key.Matches(msg, m.keys.Less) {
			minutes = max(entries[m.hobbyCursor].Minutes-minuteStep, 0)
		}
		index := m.hobbyCursor
		return m, m.editHobby(func(uid, day string) (models.HobbyLog, error) {
			return m.opts.Hobbies.EditMinutes(m.ctx, uid, day, row.Period, index, minutes)
		})
	case key.Matches(msg, m.keys.Delete):
		if m.hobbyCursor >= len(entries) {
			return m, nil
		}
		index := m.hobbyCursor
		return m, m.editHobby(func(uid, day string) (models.HobbyLog, error) {
			return m.opts.Hobbies.Remove(m.ctx, uid, day, row.Period, index)
		})
	}
	return m, nil
}

// refresh drops every cached value and reloads the day. The tracker publishes
// from the command goroutine, never from inside Update.
func (m Model) refresh() tea.Cmd {
	tracker, load := m.opts.Tracker, m.load()
	return func() tea.Msg {
		tracker.Refresh()
		return load()
	}
}

// editHobby runs a hobby log write and tells the tracker the day changed.
func (m Model) editHobby(fn func(uid, day string) (models.HobbyLog, error)) tea.Cmd {
	uid, day, tracker := m.opts.UserID, m.Day(), m.opts.Tracker
	return func() tea.Msg {
		log, err := fn(uid, day)
		if err == nil {
			tracker.NotifyChanged(uid, day)
		}
		return hobbyLogMsg{day: day, log: log, err: err}
	}
}

func (m Model) applyHobbyLog(msg hobbyLogMsg) Model {
	if msg.day != m.Day() {
		return m
	}
	if msg.err != nil {
		m.errMsg = fmt.Sprintf("Couldn't save hobby time: %v", msg.err)
		return m
	}
	m.view.Rows = cloneRows(m.view.Rows)
	for i := range m.view.Rows {
		r := &m.view.Rows[i]
		if r.Kind == progress.KindHobbyGroup && r.Period == msg.log.Period {
			r.Hobby = msg.log
			r.Checked = len(msg.log.Entries) > 0
		}
	}
	if m.hobbyCursor >= len(msg.log.Entries) {
		m.hobbyCursor = max(len(msg.log.Entries)-1, 0)
	}
	return m
}

func (m Model) openHobbyForm() (Model, tea.Cmd) {
	selected, err := m.opts.Hobbies.Selected(m.ctx, m.opts.UserID)
	if err != nil {
		m.errMsg = "Couldn't load your hobbies."
		return m, nil
	}
	if len(selected) == 0 {
		for _, h := range hobbies.Catalog {
			selected = append(selected, h.ID)
		}
	}

	options := make([]huh.Option[string], 0, len(selected))
	for _, id := range selected {
		title := id
		if h, ok := hobbies.Lookup(id); ok {
			title = h.Title
		}
		options = append(options, huh.NewOption(title, id))
	}

	m.hobbyForm = &HobbyFormModel{Hobby: selected[0], Minutes: "30"}
	m.form = newHobbyForm(m.hobbyForm, options)
	m.state = StateAddHobby
	return m, m.form.Init()
}

func newHobbyForm(fm *HobbyFormModel, options []huh.Option[string]) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Hobby").
				Options(options...).
				Value(&fm.Hobby),
			huh.NewInput().
				Title("Minutes").
				Value(&fm.Minutes).
				Validate(validMinutes),
		),
	).WithTheme(huh.ThemeDracula())
}

func validMinutes(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a number of minutes")
	}
	if n <= 0 {
		return errors.New("minutes must be greater than zero")
	}
	return nil
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.state = StateHobbies
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.state = StateHobbies
		row, ok := m.hobbyGroup()
		if !ok {
			return m, nil
		}
		minutes, _ := strconv.Atoi(strings.TrimSpace(m.hobbyForm.Minutes))
		hobby := m.hobbyForm.Hobby
		return m, m.editHobby(func(uid, day string) (models.HobbyLog, error) {
			return m.opts.Hobbies.Add(m.ctx, uid, day, row.Period, hobby, minutes)
		})
	case huh.StateAborted:
		m.state = StateHobbies
	}
	return m, cmd
}
