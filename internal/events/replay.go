package events

import (
	"fmt"

	"github.com/MRamiBalles/emerald/internal/input"
)

// Driver is what a replay feeds. The engine satisfies it.
type Driver interface {
	OnInputEvent(ev input.Event) error
	Advance(delta float64) error
}

// Replay re-drives d with entries in order: input events are ingested as
// recorded and every frame marker runs one update with its recorded delta.
// It returns the number of updates run.
func Replay(entries []Entry, d Driver) (int, error) {
	frames := 0
	for _, e := range entries {
		switch e.Type {
		case EntryTypeInput:
			if e.Input == nil {
				return frames, fmt.Errorf("entry %d: input entry without event", e.Seq)
			}
			if err := d.OnInputEvent(*e.Input); err != nil {
				return frames, fmt.Errorf("entry %d: %w", e.Seq, err)
			}
		case EntryTypeFrame:
			if err := d.Advance(e.Delta); err != nil {
				return frames, fmt.Errorf("frame %d: %w", frames+1, err)
			}
			frames++
		default:
			return frames, fmt.Errorf("entry %d: unknown type %q", e.Seq, e.Type)
		}
	}
	return frames, nil
}
