package journal

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileJournalRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.sjl")

	j, err := NewFileJournal(path)
	require.NoError(t, err)

	ts := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
	j.Log(Event{
		Timestamp: ts,
		SessionID: "session-1",
		Category:  CategorySubscription,
		Subscription: &SubscriptionEvent{
			SID:      "uuid:abc",
			OldState: "ACTIVE",
			NewState: "EXPIRING",
			Reason:   "time remaining below margin",
		},
	})
	j.Log(Event{
		Timestamp: ts.Add(time.Second),
		SessionID: "session-1",
		Category:  CategoryCommand,
		Command:   &CommandEvent{Op: "set-input", Arg: "CD", Duration: 30 * time.Millisecond},
	})
	require.NoError(t, j.Close())

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	first, err := r.Next()
	require.NoError(t, err)
	assert.True(t, ts.Equal(first.Timestamp), "timestamp keeps nanoseconds")
	require.NotNil(t, first.Subscription)
	assert.Equal(t, "EXPIRING", first.Subscription.NewState)

	second, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, second.Command)
	assert.Equal(t, "CD", second.Command.Arg)
	assert.Equal(t, 30*time.Millisecond, second.Command.Duration)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestFileJournalAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.sjl")

	for i := 0; i < 2; i++ {
		j, err := NewFileJournal(path)
		require.NoError(t, err)
		j.Log(Event{SessionID: "s", Category: CategoryError, Error: &ErrorEvent{Component: "test", Message: "x"}})
		require.NoError(t, j.Close())
	}

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	count := 0
	for {
		if _, err := r.Next(); err != nil {
			assert.ErrorIs(t, err, io.EOF)
			break
		}
		count++
	}
	assert.Equal(t, 2, count)
}

func TestFileJournalCloseTwice(t *testing.T) {
	j, err := NewFileJournal(filepath.Join(t.TempDir(), "j.sjl"))
	require.NoError(t, err)
	require.NoError(t, j.Close())
	require.NoError(t, j.Close())

	// Ignored after close.
	j.Log(Event{Category: CategoryError})
}

func TestNewFileJournalBadPath(t *testing.T) {
	_, err := NewFileJournal(filepath.Join(t.TempDir(), "missing", "j.sjl"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileJournalRotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.sjl")
	event := Event{
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		SessionID: "s",
		Category:  CategoryCommand,
		Command:   &CommandEvent{Op: "set-input", Arg: "CD"},
	}
	data, err := marshal(event)
	require.NoError(t, err)

	// Room for two events per file.
	j, err := OpenFile(FileConfig{Path: path, MaxSize: int64(2*len(data) + 1)})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		j.Log(event)
	}
	stats := j.Stats()
	require.NoError(t, j.Close())

	assert.Equal(t, 2, stats.Rotations)
	assert.Equal(t, 0, stats.Failed)
	assert.Equal(t, int64(len(data)), stats.Size)
	assert.Equal(t, 1, countEvents(t, path))
	assert.Equal(t, 2, countEvents(t, path+".1"))
}

func TestFileJournalRotationDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.sjl")
	j, err := OpenFile(FileConfig{Path: path, MaxSize: -1, NoSync: true})
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		j.Log(Event{SessionID: "s", Category: CategoryNotification})
	}
	require.NoError(t, j.Close())

	assert.Equal(t, 50, countEvents(t, path))
	_, err = os.Stat(path + ".1")
	assert.True(t, os.IsNotExist(err))
}

func TestFileJournalResumesSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.sjl")
	j, err := NewFileJournal(path)
	require.NoError(t, err)
	j.Log(Event{SessionID: "s", Category: CategoryError, Error: &ErrorEvent{Component: "bridge", Message: "x"}})
	size := j.Stats().Size
	require.NoError(t, j.Close())

	j, err = NewFileJournal(path)
	require.NoError(t, err)
	defer j.Close()
	assert.Equal(t, size, j.Stats().Size)
}

func countEvents(t *testing.T, path string) int {
	t.Helper()
	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	n := 0
	for {
		if _, err := r.Next(); err != nil {
			require.ErrorIs(t, err, io.EOF)
			return n
		}
		n++
	}
}

func TestFilteredReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.sjl")
	j, err := NewFileJournal(path)
	require.NoError(t, err)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, c := range []Category{CategoryNotification, CategoryCommand, CategoryNotification, CategoryTransition} {
		j.Log(Event{Timestamp: base.Add(time.Duration(i) * time.Minute), SessionID: "s", Category: c})
	}
	require.NoError(t, j.Close())

	cat := CategoryNotification
	r, err := NewFilteredReader(path, Filter{Category: &cat})
	require.NoError(t, err)
	defer r.Close()

	var got []time.Time
	for {
		ev, err := r.Next()
		if err != nil {
			break
		}
		got = append(got, ev.Timestamp)
	}
	require.Len(t, got, 2)
	assert.True(t, got[1].Equal(base.Add(2*time.Minute)))
}

func TestFilterTimeRange(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	f := Filter{TimeStart: &start, TimeEnd: &end}

	assert.True(t, f.Matches(Event{Timestamp: start}))
	assert.False(t, f.Matches(Event{Timestamp: end}), "end is exclusive")
	assert.False(t, f.Matches(Event{Timestamp: start.Add(-time.Second)}))
}

func TestWithSession(t *testing.T) {
	rec := NewRecorder()
	j := WithSession(rec, "session-42", "RINCON_1")

	j.Log(Event{Category: CategoryTransition, Transition: &TransitionEvent{From: "UNKNOWN", To: "PLAYING", Action: "start"}})
	j.Log(Event{Category: CategoryError, Source: "override", Error: &ErrorEvent{Component: "c", Message: "m"}})

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "session-42", events[0].SessionID)
	assert.Equal(t, "RINCON_1", events[0].Source)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.Equal(t, "override", events[1].Source)
}

func TestTee(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	j := Tee(a, nil, b)
	j.Log(Event{Category: CategoryCommand})

	assert.Len(t, a.Events(), 1)
	assert.Len(t, b.Events(), 1)

	assert.Equal(t, Noop{}, Tee(nil, nil))
	assert.Same(t, a, Tee(nil, a))
}

func TestRecorderByCategory(t *testing.T) {
	rec := NewRecorder()
	rec.Log(Event{Category: CategoryCommand})
	rec.Log(Event{Category: CategoryError})
	rec.Log(Event{Category: CategoryCommand})

	assert.Len(t, rec.ByCategory(CategoryCommand), 2)
	assert.Len(t, rec.ByCategory(CategoryNotification), 0)
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	a := NewSlogAdapter(logger)
	a.Log(Event{
		SessionID: "0123456789abcdef",
		Category:  CategoryCommand,
		Command:   &CommandEvent{Op: "set-volume", Arg: "60", Err: "timeout"},
	})

	out := buf.String()
	assert.Contains(t, out, "session=01234567 ")
	assert.Contains(t, out, "category=COMMAND")
	assert.Contains(t, out, "op=set-volume")
	assert.Contains(t, out, "err=timeout")
	assert.False(t, strings.Contains(out, "result="))
}

func TestCategoryParse(t *testing.T) {
	for _, c := range []Category{CategorySubscription, CategoryNotification, CategoryTransition, CategoryCommand, CategoryError} {
		got, ok := ParseCategory(strings.ToLower(c.String()))
		assert.True(t, ok)
		assert.Equal(t, c, got)
	}
	_, ok := ParseCategory("frames")
	assert.False(t, ok)
}

func TestOrNoop(t *testing.T) {
	assert.Equal(t, Noop{}, OrNoop(nil))
	rec := NewRecorder()
	assert.Same(t, rec, OrNoop(rec))
}
