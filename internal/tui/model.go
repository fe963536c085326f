// Package tui is the interactive day view: a pager over the last year of
// days with the daily list, exercise checks and hobby time for each.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	progressbar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dailies/internal/constants"
	"github.com/julianstephens/dailies/internal/dayview"
	"github.com/julianstephens/dailies/internal/events"
	"github.com/julianstephens/dailies/internal/models"
	"github.com/julianstephens/dailies/internal/progress"
	"github.com/julianstephens/dailies/internal/utils"
)

// HobbyStore reads and edits hobby selections and logs
type HobbyStore interface {
	Selected(ctx context.Context, userID string) ([]string, error)
	Log(ctx context.Context, userID, day string, period constants.Period) (models.HobbyLog, error)
	Add(ctx context.Context, userID, day string, period constants.Period, hobby string, minutes int) (models.HobbyLog, error)
	EditMinutes(ctx context.Context, userID, day string, period constants.Period, index, minutes int) (models.HobbyLog, error)
	Remove(ctx context.Context, userID, day string, period constants.Period, index int) (models.HobbyLog, error)
}

// Options configure a TUI session
type Options struct {
	UserID      string
	DisplayName string
	Location    *time.Location
	// StartDay is the day to open on (YYYY-MM-DD); empty opens today.
	StartDay    string
	FirstLaunch bool

	Tracker  *progress.Tracker
	Lists    progress.ListSource
	Statuses progress.StatusLookup
	Hobbies  HobbyStore

	// Now overrides the clock that decides which day is today.
	Now func() time.Time
}

type SessionState int

const (
	StateDay SessionState = iota
	StateWelcome
	StateHobbies
	StateAddHobby
)

// line is one selectable line of the day view: a row, or one of an
// exercise group's exercises when exercise >= 0.
type line struct {
	row      int
	exercise int
}

type HobbyFormModel struct {
	Hobby   string
	Minutes string
}

type Model struct {
	ctx  context.Context
	opts Options

	state   SessionState
	keys    KeyMap
	help    help.Model
	bar     progressbar.Model
	days    []string
	index   int
	seq     int
	loading bool

	view    dayview.View
	loaded  bool
	lines   []line
	cursor  int
	errMsg  string
	loadErr error

	hobbyRow    int
	hobbyCursor int
	hobbyForm   *HobbyFormModel
	form        *huh.Form

	quitting bool
	width    int
	height   int
}

// NewModel builds the pager window (the last 365 days ending today) and
// positions it on StartDay.
func NewModel(ctx context.Context, opts Options) (Model, error) {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	today := utils.StartOfDay(opts.Now(), opts.Location)
	first := today.AddDate(0, 0, -(constants.DayPagerHistoryDays - 1))
	days := utils.DayRange(first, today, opts.Location)

	index := len(days) - 1
	if opts.StartDay != "" {
		start, err := utils.ResolveDay(opts.StartDay, opts.Location)
		if err != nil {
			return Model{}, err
		}
		index = -1
		for i, d := range days {
			if d == start {
				index = i
				break
			}
		}
		if index < 0 {
			return Model{}, fmt.Errorf("%s is outside the last %d days", start, constants.DayPagerHistoryDays)
		}
	}

	state := StateDay
	if opts.FirstLaunch {
		state = StateWelcome
	}

	return Model{
		ctx:     ctx,
		opts:    opts,
		state:   state,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		bar:     progressbar.New(progressbar.WithDefaultGradient(), progressbar.WithWidth(40)),
		days:    days,
		index:   index,
		loading: true,
	}, nil
}

// Day is the day currently shown
func (m Model) Day() string {
	return m.days[m.index]
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case StateHobbies:
		return []key.Binding{m.keys.Add, m.keys.More, m.keys.Less, m.keys.Delete, m.keys.Back}
	case StateWelcome:
		return []key.Binding{m.keys.Toggle, m.keys.Quit}
	}
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

// Run starts the program and redraws whenever the tracker publishes a change.
func Run(ctx context.Context, opts Options) error {
	m, err := NewModel(ctx, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	bus := opts.Tracker.Bus()
	token := subscribe(bus, p)
	defer bus.Unsubscribe(token)

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// subscribe forwards bus notifications to p. Send blocks until the event loop
// reads the message, so it runs on its own goroutine in case the publisher is
// the event loop itself.
func subscribe(bus *events.Bus, p *tea.Program) events.Token {
	return bus.Subscribe(func() {
		go p.Send(changedMsg{})
	})
}

func (m Model) sources() dayview.Sources {
	return dayview.Sources{
		Lists:    m.opts.Lists,
		Statuses: m.opts.Statuses,
		Hobbies:  m.opts.Hobbies,
		Tracker:  m.opts.Tracker,
	}
}

// buildLines flattens the rows into the lines the cursor moves over.
func buildLines(view dayview.View) []line {
	var lines []line
	for i, row := range view.Rows {
		lines = append(lines, line{row: i, exercise: -1})
		for j := range row.Exercises {
			lines = append(lines, line{row: i, exercise: j})
		}
	}
	return lines
}
