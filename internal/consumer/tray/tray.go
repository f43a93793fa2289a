package tray

import (
	"context"
	"log/slog"
	"sync"

	"voxtype/internal/logging"
	"voxtype/internal/notifications"
	"voxtype/internal/status"
)

// ForwardBuffer is the capacity of the channel between the forwarding
// goroutine and the tray event loop.
const ForwardBuffer = 32

// Menu item identifiers.
const (
	ItemToggle = "toggle"
	ItemStatus = "status"
	ItemQuit   = "quit"
)

// Receiver is the blocking side of a status bus queue.
type Receiver interface {
	Recv(ctx context.Context) (string, bool)
}

// MenuItem is one entry of the tray menu.
type MenuItem struct {
	ID       string
	Label    string
	IconName string
	Enabled  bool
}

// View is everything a tray host needs to draw the icon.
type View struct {
	State          State
	IconName       string
	Title          string
	Tooltip        string
	NeedsAttention bool
	Menu           []MenuItem
}

// Host draws the tray icon. Publish is called from the tray event loop
// whenever the view changes.
type Host interface {
	Publish(View)
}

// LogHost is a Host that records view changes in the log. It is used when
// no status notifier host is available.
type LogHost struct {
	Logger *slog.Logger
}

func (h LogHost) Publish(v View) {
	logger := h.Logger
	if logger == nil {
		return
	}
	logger.Info("tray state", logging.String(logging.FieldState, v.State.String()), logging.String("icon", v.IconName))
}

// Options configures a Tray.
type Options struct {
	Host     Host
	Notifier notifications.Service
	// Toggle runs `voxtype record toggle`.
	Toggle func(ctx context.Context) error
	Logger *slog.Logger
}

// Tray tracks daemon state for the tray icon and its menu.
type Tray struct {
	host     Host
	notifier notifications.Service
	toggle   func(ctx context.Context) error
	logger   *slog.Logger

	mu    sync.Mutex
	state State

	refresh  chan struct{}
	quit     chan struct{}
	quitOnce sync.Once
}

// New builds a tray starting in the Idle state.
func New(opts Options) *Tray {
	if opts.Host == nil {
		opts.Host = LogHost{}
	}
	if opts.Notifier == nil {
		opts.Notifier = notifications.NewService(nil)
	}
	return &Tray{
		host:     opts.Host,
		notifier: opts.Notifier,
		toggle:   opts.Toggle,
		logger:   logging.NewComponentLogger(opts.Logger, "tray"),
		state:    Idle,
		refresh:  make(chan struct{}, 1),
		quit:     make(chan struct{}),
	}
}

// State returns the current tray state.
func (t *Tray) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// View builds the current view.
func (t *Tray) View() View {
	return viewFor(t.State())
}

func viewFor(s State) View {
	toggleLabel := "Start recording"
	toggleIcon := "media-record-symbolic"
	if s == Recording {
		toggleLabel = "Stop recording"
		toggleIcon = "media-playback-stop-symbolic"
	}
	return View{
		State:          s,
		IconName:       s.IconName(),
		Title:          "Voxtype - " + s.Label(),
		Tooltip:        s.TooltipBody(),
		NeedsAttention: s == Recording,
		Menu: []MenuItem{
			{ID: ItemToggle, Label: toggleLabel, IconName: toggleIcon, Enabled: true},
			{ID: ItemStatus, Label: "Status: " + s.Label(), IconName: s.IconName()},
			{ID: ItemQuit, Label: "Quit", IconName: "application-exit-symbolic", Enabled: true},
		},
	}
}

// Refresh asks the event loop to push the current view to the host again.
// It never blocks; requests made while one is pending are merged.
func (t *Tray) Refresh() {
	select {
	case t.refresh <- struct{}{}:
	default:
	}
}

// Activate handles a primary click on the icon.
func (t *Tray) Activate(ctx context.Context) error {
	if t.toggle == nil {
		return nil
	}
	return t.toggle(ctx)
}

// Select handles a menu item activation.
func (t *Tray) Select(ctx context.Context, id string) error {
	switch id {
	case ItemToggle:
		return t.Activate(ctx)
	case ItemQuit:
		t.RequestQuit()
	}
	return nil
}

// RequestQuit signals Quit once; later calls are no-ops.
func (t *Tray) RequestQuit() {
	t.quitOnce.Do(func() { close(t.quit) })
}

// Quit is closed when the user asks the tray to quit.
func (t *Tray) Quit() <-chan struct{} { return t.quit }

// Quitting reports whether RequestQuit has been called.
func (t *Tray) Quitting() bool {
	select {
	case <-t.quit:
		return true
	default:
		return false
	}
}

// Run consumes status lines until src ends or ctx is done. A dedicated
// goroutine performs the only blocking Recv and forwards lines over a
// buffered channel; the event loop here never touches src directly. When the
// bus ends the tray shows Stopped. Every Host.Publish call happens on this
// loop.
func (t *Tray) Run(ctx context.Context, src Receiver) error {
	t.host.Publish(t.View())

	lines := make(chan string, ForwardBuffer)
	go forward(ctx, src, lines)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.refresh:
			t.host.Publish(t.View())
		case line, ok := <-lines:
			if !ok {
				t.setState(ctx, Stopped)
				return nil
			}
			t.Apply(ctx, line)
		}
	}
}

func forward(ctx context.Context, src Receiver, out chan<- string) {
	defer close(out)
	for {
		line, ok := src.Recv(ctx)
		if !ok {
			return
		}
		select {
		case out <- line:
		case <-ctx.Done():
			return
		}
	}
}

// Apply updates state from one status line. Lines without a class are ignored.
func (t *Tray) Apply(ctx context.Context, line string) {
	rec, err := status.ParseLine(line)
	if err != nil || rec.Class == "" {
		return
	}
	t.setState(ctx, StateFromClass(rec.Class))
}

func (t *Tray) setState(ctx context.Context, next State) {
	t.mu.Lock()
	prev := t.state
	t.state = next
	t.mu.Unlock()
	if prev == next {
		return
	}
	t.host.Publish(viewFor(next))
	t.notifyTransition(ctx, prev, next)
}

func (t *Tray) notifyTransition(ctx context.Context, prev, next State) {
	var err error
	switch {
	case next == Stopped:
		err = t.notifier.NotifyDaemonStopped(ctx)
	case prev == Stopped:
		err = t.notifier.NotifyDaemonReady(ctx)
	default:
		return
	}
	if err != nil {
		t.logger.Debug("tray notification failed", logging.Error(err))
	}
}
