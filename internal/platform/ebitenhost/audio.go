package ebitenhost

import (
	"bytes"
	"fmt"
	"io"

	eaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"github.com/MRamiBalles/emerald/internal/assets"
	"github.com/MRamiBalles/emerald/internal/audio"
)

// SampleRate of the shared audio context.
const SampleRate = 44100

type voice struct {
	player *eaudio.Player
	volume float64
}

// AudioBackend plays sounds through Ebitengine's audio context. Decoded PCM
// is cached per sound; finished players are reaped on the next Play.
type AudioBackend struct {
	ctx    *eaudio.Context
	pcm    map[*assets.Sound][]byte
	voices []voice
	master float64
}

// NewAudioBackend creates the process-wide audio context. Ebitengine allows
// only one, so call this once.
func NewAudioBackend() *AudioBackend {
	return &AudioBackend{
		ctx:    eaudio.NewContext(SampleRate),
		pcm:    make(map[*assets.Sound][]byte),
		master: 1,
	}
}

var _ audio.Backend = (*AudioBackend)(nil)

func (b *AudioBackend) Play(sound *assets.Sound, opts audio.PlayOptions) error {
	data, err := b.decode(sound)
	if err != nil {
		return err
	}
	var src io.Reader = bytes.NewReader(data)
	if opts.Loop {
		src = eaudio.NewInfiniteLoop(bytes.NewReader(data), int64(len(data)))
	}
	p, err := b.ctx.NewPlayer(src)
	if err != nil {
		return fmt.Errorf("new player: %w", err)
	}
	b.reap()
	p.SetVolume(opts.Volume * b.master)
	p.Play()
	b.voices = append(b.voices, voice{player: p, volume: opts.Volume})
	return nil
}

func (b *AudioBackend) StopAll() error {
	for _, v := range b.voices {
		v.player.Pause()
		if err := v.player.Close(); err != nil {
			return err
		}
	}
	b.voices = b.voices[:0]
	return nil
}

func (b *AudioBackend) SetVolume(volume float64) error {
	b.master = volume
	for _, v := range b.voices {
		v.player.SetVolume(v.volume * volume)
	}
	return nil
}

// Clear stops everything and forgets decoded sounds.
func (b *AudioBackend) Clear() error {
	err := b.StopAll()
	clear(b.pcm)
	return err
}

func (b *AudioBackend) reap() {
	live := b.voices[:0]
	for _, v := range b.voices {
		if v.player.IsPlaying() {
			live = append(live, v)
			continue
		}
		_ = v.player.Close()
	}
	b.voices = live
}

func (b *AudioBackend) decode(sound *assets.Sound) ([]byte, error) {
	if data, ok := b.pcm[sound]; ok {
		return data, nil
	}
	r := bytes.NewReader(sound.Data)
	var (
		stream io.Reader
		err    error
	)
	switch sound.Format {
	case assets.SoundWAV:
		stream, err = wav.DecodeWithSampleRate(SampleRate, r)
	case assets.SoundOGG:
		stream, err = vorbis.DecodeWithSampleRate(SampleRate, r)
	case assets.SoundMP3:
		stream, err = mp3.DecodeWithSampleRate(SampleRate, r)
	default:
		err = fmt.Errorf("unsupported format %q", sound.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", sound.Key, err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", sound.Key, err)
	}
	b.pcm[sound] = data
	return data, nil
}
