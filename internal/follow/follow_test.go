package follow_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxtype/internal/fileutil"
	"voxtype/internal/follow"
	"voxtype/internal/statefile"
	"voxtype/internal/status"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	text := strings.TrimRight(b.buf.String(), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

var testIcons = status.Icons{Idle: "I", Recording: "R", Transcribing: "T", Stopped: "S"}

type fixture struct {
	statePath string
	alive     *atomic.Bool
}

func newFixture(t *testing.T, state string) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{statePath: filepath.Join(dir, "state"), alive: &atomic.Bool{}}
	f.alive.Store(true)
	if state != "" {
		f.writeState(t, state)
	}
	return f
}

func (f fixture) writeState(t *testing.T, state string) {
	t.Helper()
	require.NoError(t, fileutil.WriteFileAtomic(f.statePath, []byte(state+"\n"), 0o644))
}

func (f fixture) writeLevel(t *testing.T, level string) {
	t.Helper()
	require.NoError(t, fileutil.WriteFileAtomic(statefile.LevelPath(f.statePath), []byte(level), 0o644))
}

func (f fixture) reader(format follow.Format) *follow.Reader {
	return follow.New(follow.Options{
		StatePath:         f.statePath,
		Format:            format,
		Formatter:         status.NewFormatter(testIcons),
		Alive:             f.alive.Load,
		RecordingInterval: 10 * time.Millisecond,
		IdleInterval:      20 * time.Millisecond,
	})
}

func decodeClasses(t *testing.T, lines []string) []string {
	t.Helper()
	classes := make([]string, 0, len(lines))
	for _, line := range lines {
		rec, err := status.ParseLine(line)
		require.NoError(t, err, line)
		classes = append(classes, rec.Class)
	}
	return classes
}

func TestOnceReportsIdle(t *testing.T) {
	f := newFixture(t, "idle")
	var out bytes.Buffer
	require.NoError(t, f.reader(follow.FormatJSON).Once(&out))
	assert.Equal(t, `{"text":"I","alt":"idle","class":"idle","tooltip":"Voxtype ready - hold hotkey to record"}`+"\n", out.String())
}

func TestOnceReportsStoppedWhenDaemonDead(t *testing.T) {
	f := newFixture(t, "recording")
	f.alive.Store(false)
	var out bytes.Buffer
	require.NoError(t, f.reader(follow.FormatJSON).Once(&out))
	assert.Contains(t, out.String(), `"class":"stopped"`)
}

func TestOnceReportsStoppedWhenStateFileMissing(t *testing.T) {
	f := newFixture(t, "")
	var out bytes.Buffer
	require.NoError(t, f.reader(follow.FormatText).Once(&out))
	assert.Equal(t, "stopped\n", out.String())
}

func TestSnapshotCarriesLevelOnlyWhileRecording(t *testing.T) {
	f := newFixture(t, "recording")
	f.writeLevel(t, "0.25")
	r := f.reader(follow.FormatJSON)

	snap := r.Snapshot()
	require.NotNil(t, snap.Level)
	assert.InDelta(t, 0.25, *snap.Level, 1e-9)

	f.writeState(t, "transcribing")
	assert.Nil(t, r.Snapshot().Level)
}

func TestSnapshotDropsOutOfRangeLevel(t *testing.T) {
	f := newFixture(t, "recording")
	f.writeLevel(t, "1.5")
	assert.Nil(t, f.reader(follow.FormatJSON).Snapshot().Level)
}

func TestFollowEmitsTransitionsAndSingleStop(t *testing.T) {
	f := newFixture(t, "idle")
	r := f.reader(follow.FormatJSON)
	out := &syncBuffer{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Follow(ctx, out) }()

	require.Eventually(t, func() bool { return len(out.lines()) == 1 }, 2*time.Second, 5*time.Millisecond)

	f.writeState(t, "recording")
	require.Eventually(t, func() bool { return len(out.lines()) == 2 }, 2*time.Second, 5*time.Millisecond)

	f.alive.Store(false)
	require.Eventually(t, func() bool { return len(out.lines()) == 3 }, 2*time.Second, 5*time.Millisecond)

	// Several more wakes while down must not repeat the stopped record.
	time.Sleep(100 * time.Millisecond)
	assert.Len(t, out.lines(), 3)

	f.writeState(t, "idle")
	f.alive.Store(true)
	require.Eventually(t, func() bool { return len(out.lines()) == 4 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("follow did not return after cancel")
	}

	assert.Equal(t, []string{"idle", "recording", "stopped", "idle"}, decodeClasses(t, out.lines()))
}

func TestFollowEmitsLevelChangesWhileRecording(t *testing.T) {
	f := newFixture(t, "recording")
	f.writeLevel(t, "0.1")
	r := f.reader(follow.FormatJSON)
	out := &syncBuffer{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Follow(ctx, out) }()

	require.Eventually(t, func() bool { return len(out.lines()) == 1 }, 2*time.Second, 5*time.Millisecond)
	f.writeLevel(t, "0.6")
	require.Eventually(t, func() bool { return len(out.lines()) == 2 }, 2*time.Second, 5*time.Millisecond)

	rec, err := status.ParseLine(out.lines()[1])
	require.NoError(t, err)
	require.NotNil(t, rec.Level)
	assert.InDelta(t, 0.6, *rec.Level, 1e-9)

	time.Sleep(60 * time.Millisecond)
	assert.Len(t, out.lines(), 2, "unchanged level must not be re-emitted")
}

func TestFollowTextIgnoresLevelChanges(t *testing.T) {
	f := newFixture(t, "recording")
	f.writeLevel(t, "0.1")
	r := f.reader(follow.FormatText)
	out := &syncBuffer{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Follow(ctx, out) }()

	require.Eventually(t, func() bool { return len(out.lines()) == 1 }, 2*time.Second, 5*time.Millisecond)
	f.writeLevel(t, "0.9")
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, []string{"recording"}, out.lines())
}

func TestFollowCreatesMissingStateDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "voxtype")
	alive := &atomic.Bool{}
	r := follow.New(follow.Options{
		StatePath:    filepath.Join(dir, "state"),
		Formatter:    status.NewFormatter(testIcons),
		Alive:        alive.Load,
		IdleInterval: 10 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	out := &syncBuffer{}
	err := r.Follow(ctx, out)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, []string{"stopped"}, decodeClasses(t, out.lines()))

	info, statErr := os.Stat(dir)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestParseFormat(t *testing.T) {
	got, err := follow.ParseFormat("text")
	require.NoError(t, err)
	assert.Equal(t, follow.FormatText, got)

	_, err = follow.ParseFormat("yaml")
	assert.Error(t, err)
}
