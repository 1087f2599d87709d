package render

import (
	"github.com/MRamiBalles/emerald/internal/assets"
)

// Headless is a rendering backend that records draw calls instead of
// touching a GPU. It backs replays and tests.
type Headless struct {
	// Uploaded holds every texture seen in PreDraw.
	Uploaded map[*assets.Texture]bool
	// LastFrame holds the drawables of the most recent Render.
	LastFrame []Drawable
	// Frames counts completed Begin/Render pairs.
	Frames int
	// PreDraws and PostDraws count bracket calls.
	PreDraws  int
	PostDraws int

	queue  []Drawable
	active bool
}

// NewHeadless creates an empty headless backend.
func NewHeadless() *Headless {
	return &Headless{Uploaded: make(map[*assets.Texture]bool)}
}

func (h *Headless) PreDraw(_ Target, store *assets.Store) error {
	h.PreDraws++
	for _, tex := range store.TakeNewTextures() {
		h.Uploaded[tex] = true
	}
	return nil
}

func (h *Headless) Begin(_ Target) error {
	h.queue = h.queue[:0]
	h.active = true
	return nil
}

func (h *Headless) DrawWorld(world World) error {
	if !h.active {
		return Wrap("draw_world", ErrNoFrame)
	}
	h.queue = world.AppendDrawables(h.queue)
	return nil
}

func (h *Headless) Draw(d Drawable) error {
	if !h.active {
		return Wrap("draw", ErrNoFrame)
	}
	h.queue = append(h.queue, d)
	return nil
}

func (h *Headless) Render(_ Target) error {
	if !h.active {
		return Wrap("render", ErrNoFrame)
	}
	h.LastFrame = append(h.LastFrame[:0], h.queue...)
	h.active = false
	h.Frames++
	return nil
}

func (h *Headless) PostDraw(_ Target, _ *assets.Store) error {
	h.PostDraws++
	return nil
}
