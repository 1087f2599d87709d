package events

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/emerald/internal/input"
)

type memPersister struct {
	batches [][]Entry
	fail    bool
}

func (m *memPersister) AppendEntries(_ context.Context, _ string, entries []Entry) error {
	if m.fail {
		return errors.New("db locked")
	}
	m.batches = append(m.batches, entries)
	return nil
}

func TestJournalRecordsInOrder(t *testing.T) {
	j := NewJournal(nil)
	_, err := uuid.Parse(j.Session())
	require.NoError(t, err)

	j.RecordInput(input.Event{Kind: input.EventKeyDown, Key: input.KeyA})
	j.RecordFrame(0.016)
	j.RecordFrame(0.017)

	entries := j.Entries()
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, i, e.Seq)
		assert.NotEmpty(t, e.ID)
	}
	assert.Equal(t, EntryTypeInput, entries[0].Type)
	assert.Equal(t, input.KeyA, entries[0].Input.Key)
	assert.Equal(t, 2, j.Frames())
}

func TestFlushWritesOnlyNewEntries(t *testing.T) {
	p := &memPersister{}
	j := NewJournal(p)
	ctx := context.Background()

	j.RecordFrame(0.016)
	require.NoError(t, j.Flush(ctx))
	require.NoError(t, j.Flush(ctx))
	j.RecordFrame(0.016)
	j.RecordFrame(0.016)
	require.NoError(t, j.Flush(ctx))

	require.Len(t, p.batches, 2)
	assert.Len(t, p.batches[0], 1)
	assert.Len(t, p.batches[1], 2)
	assert.Equal(t, 1, p.batches[1][0].Seq)
}

func TestFlushFailureKeepsEntriesPending(t *testing.T) {
	p := &memPersister{fail: true}
	j := NewJournal(p)
	j.RecordFrame(0.016)

	assert.Error(t, j.Flush(context.Background()))
	p.fail = false
	require.NoError(t, j.Flush(context.Background()))
	require.Len(t, p.batches, 1)
	assert.Len(t, p.batches[0], 1)
}

type fakeDriver struct {
	calls []string
	fail  bool
}

func (d *fakeDriver) OnInputEvent(ev input.Event) error {
	d.calls = append(d.calls, string(ev.Kind))
	return nil
}

func (d *fakeDriver) Advance(delta float64) error {
	if d.fail {
		return errors.New("game crashed")
	}
	d.calls = append(d.calls, "frame")
	return nil
}

func TestReplayPreservesOrder(t *testing.T) {
	j := NewJournal(nil)
	j.RecordInput(input.Event{Kind: input.EventKeyDown, Key: input.KeyA})
	j.RecordFrame(0.016)
	j.RecordInput(input.Event{Kind: input.EventKeyUp, Key: input.KeyA})
	j.RecordFrame(0.016)

	d := &fakeDriver{}
	frames, err := Replay(j.Entries(), d)
	require.NoError(t, err)
	assert.Equal(t, 2, frames)
	assert.Equal(t, []string{"KEY_DOWN", "frame", "KEY_UP", "frame"}, d.calls)
}

func TestReplayStopsAtFirstError(t *testing.T) {
	j := NewJournal(nil)
	j.RecordFrame(0.016)
	j.RecordFrame(0.016)

	frames, err := Replay(j.Entries(), &fakeDriver{fail: true})
	assert.Error(t, err)
	assert.Zero(t, frames)

	_, err = Replay([]Entry{{Type: "BOGUS"}}, &fakeDriver{})
	assert.Error(t, err)
}
