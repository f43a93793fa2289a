package overlay

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"voxtype/internal/status"
)

const (
	// TickInterval is how often the overlay drains its queue and redraws.
	TickInterval = 50 * time.Millisecond
	// WaveformBars is the number of level samples kept for the waveform.
	WaveformBars = 24
	// ErrorHideDelay is how long an error banner stays visible.
	ErrorHideDelay = 5 * time.Second
	// DefaultDrainLimit caps the lines applied per tick.
	DefaultDrainLimit = 64

	daemonStoppedMessage = "Daemon not running"
)

// State is what the overlay currently shows.
type State int

const (
	Hidden State = iota
	Recording
	Transcribing
	Error
)

func (s State) String() string {
	switch s {
	case Recording:
		return "recording"
	case Transcribing:
		return "transcribing"
	case Error:
		return "error"
	default:
		return "hidden"
	}
}

// Source is the non-blocking side of a status bus queue.
type Source interface {
	TryRecv() (string, bool)
	Ended() bool
}

// Options configures a Model.
type Options struct {
	Source Source
	// Cancel runs `voxtype record cancel`.
	Cancel     func(ctx context.Context) error
	DrainLimit int
	Now        func() time.Time
}

type tickMsg time.Time

type cancelDoneMsg struct{ err error }

// QuitMsg asks the overlay to exit; the ui sends it when the tray quits.
type QuitMsg struct{}

// Model is the bubbletea model for the recording overlay. It runs on the
// program's single event loop and never blocks on the bus.
type Model struct {
	source     Source
	cancel     func(ctx context.Context) error
	drainLimit int
	now        func() time.Time

	keys KeyMap
	help help.Model

	state   State
	levels  []float64
	started time.Time
	message string
	hideAt  time.Time
}

// New builds an overlay model in the Hidden state.
func New(opts Options) Model {
	if opts.DrainLimit <= 0 {
		opts.DrainLimit = DefaultDrainLimit
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return Model{
		source:     opts.Source,
		cancel:     opts.Cancel,
		drainLimit: opts.DrainLimit,
		now:        opts.Now,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		levels:     make([]float64, WaveformBars),
	}
}

// State returns the current overlay state.
func (m Model) State() State { return m.state }

// Message returns the status or error text, if any.
func (m Model) Message() string { return m.message }

// Levels returns a copy of the waveform history, oldest first.
func (m Model) Levels() []float64 {
	out := make([]float64, len(m.levels))
	copy(out, m.levels)
	return out
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles ticks, key presses, and cancel results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		now := time.Time(msg)
		m = m.drain(now)
		if m.state == Error && !now.Before(m.hideAt) {
			m = m.hide()
		}
		if m.source != nil && m.source.Ended() {
			return m, tea.Quit
		}
		return m, tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Cancel):
			if m.state == Hidden {
				return m, nil
			}
			m = m.hide()
			return m, m.runCancel()
		}
		return m, nil

	case cancelDoneMsg:
		if msg.err != nil {
			m = m.showError(fmt.Sprintf("Cancel failed: %v", msg.err), m.now())
		}
		return m, nil

	case QuitMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) runCancel() tea.Cmd {
	cancel := m.cancel
	if cancel == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		return cancelDoneMsg{err: cancel(ctx)}
	}
}

// drain applies at most drainLimit queued lines without blocking.
func (m Model) drain(now time.Time) Model {
	if m.source == nil {
		return m
	}
	for i := 0; i < m.drainLimit; i++ {
		line, ok := m.source.TryRecv()
		if !ok {
			break
		}
		m = m.Apply(line, now)
	}
	return m
}

// Apply updates the model from one bus line. Malformed lines are ignored.
func (m Model) Apply(line string, now time.Time) Model {
	rec, err := status.ParseLine(line)
	if err != nil {
		return m
	}
	switch status.State(rec.Class) {
	case status.Recording:
		if m.state != Recording {
			m = m.showRecording(now)
		}
		// A record without a level draws as silence.
		level := 0.0
		if rec.Level != nil {
			level = *rec.Level
		}
		m = m.pushLevel(level)
	case status.Transcribing:
		if m.state != Transcribing {
			m.state = Transcribing
			m.message = "Transcribing..."
		}
	case status.Idle:
		if m.active() {
			m = m.hide()
		}
	case status.Stopped:
		if m.active() {
			m = m.showError(daemonStoppedMessage, now)
		}
	}
	return m
}

func (m Model) active() bool {
	return m.state == Recording || m.state == Transcribing
}

func (m Model) showRecording(now time.Time) Model {
	m.state = Recording
	m.started = now
	m.message = ""
	m.levels = make([]float64, WaveformBars)
	return m
}

func (m Model) showError(message string, now time.Time) Model {
	m.state = Error
	m.message = message
	m.hideAt = now.Add(ErrorHideDelay)
	return m
}

func (m Model) hide() Model {
	m.state = Hidden
	m.message = ""
	m.started = time.Time{}
	m.hideAt = time.Time{}
	return m
}

func (m Model) pushLevel(level float64) Model {
	next := make([]float64, 0, WaveformBars)
	next = append(next, m.levels[1:]...)
	m.levels = append(next, level)
	return m
}

// Elapsed returns the recording duration at now, or zero when not recording.
func (m Model) Elapsed(now time.Time) time.Duration {
	if m.started.IsZero() || m.state != Recording {
		return 0
	}
	return now.Sub(m.started)
}
