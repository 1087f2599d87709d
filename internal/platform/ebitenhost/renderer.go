package ebitenhost

import (
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/MRamiBalles/emerald/internal/assets"
	"github.com/MRamiBalles/emerald/internal/render"
)

var errNoScreen = errors.New("screen not bound")

// Renderer is a render.Engine drawing onto the Ebitengine screen.
// Textures are uploaded once, keyed by pointer.
type Renderer struct {
	ClearColor color.Color

	images map[*assets.Texture]*ebiten.Image
	screen *ebiten.Image
	queue  []render.Drawable
	active bool
}

// NewRenderer creates a renderer with a black clear color.
func NewRenderer() *Renderer {
	return &Renderer{
		ClearColor: color.Black,
		images:     make(map[*assets.Texture]*ebiten.Image),
	}
}

func (r *Renderer) setScreen(screen *ebiten.Image) { r.screen = screen }

func (r *Renderer) PreDraw(_ render.Target, store *assets.Store) error {
	for _, tex := range store.TakeNewTextures() {
		r.upload(tex)
	}
	return nil
}

func (r *Renderer) Begin(_ render.Target) error {
	if r.screen == nil {
		return render.Wrap("begin", errNoScreen)
	}
	r.queue = r.queue[:0]
	r.active = true
	r.screen.Fill(r.ClearColor)
	return nil
}

func (r *Renderer) DrawWorld(world render.World) error {
	if !r.active {
		return render.Wrap("draw_world", render.ErrNoFrame)
	}
	r.queue = world.AppendDrawables(r.queue)
	return nil
}

func (r *Renderer) Draw(d render.Drawable) error {
	if !r.active {
		return render.Wrap("draw", render.ErrNoFrame)
	}
	r.queue = append(r.queue, d)
	return nil
}

// Render flushes the queue. Drawable coordinates have their origin at the
// bottom left; the quad's bottom edge sits at Y.
func (r *Renderer) Render(target render.Target) error {
	if !r.active {
		return render.Wrap("render", render.ErrNoFrame)
	}
	r.active = false
	_, h := target.ScreenSize()
	for _, d := range r.queue {
		if d.Texture == nil {
			continue
		}
		src := d.SourceRect()
		sub, ok := r.upload(d.Texture).SubImage(src).(*ebiten.Image)
		if !ok {
			continue
		}
		scale := d.Scale
		if scale == 0 {
			scale = 1
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(d.X, h-(d.Y+float64(src.Dy())*scale))
		r.screen.DrawImage(sub, op)
	}
	return nil
}

func (r *Renderer) PostDraw(_ render.Target, _ *assets.Store) error {
	r.queue = r.queue[:0]
	return nil
}

func (r *Renderer) upload(tex *assets.Texture) *ebiten.Image {
	if img, ok := r.images[tex]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(tex.Image)
	r.images[tex] = img
	return img
}
