package assets

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smileyJSON = `{
  "frames": {
    "smiley 0.aseprite": {"frame": {"x": 0, "y": 0, "w": 16, "h": 16}, "duration": 100},
    "smiley 1.aseprite": {"frame": {"x": 16, "y": 0, "w": 16, "h": 16}, "duration": 200}
  },
  "meta": {
    "image": "smiley.png",
    "size": {"w": 32, "h": 16},
    "frameTags": [{"name": "smile", "from": 0, "to": 1, "direction": "forward"}]
  }
}`

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	full := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, data, 0o644))
}

func writePNG(t *testing.T, dir, name string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	writeFile(t, dir, name, buf.Bytes())
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	root := t.TempDir()
	s, err := NewStore(Config{AssetRoot: root, UserDataRoot: filepath.Join(t.TempDir(), "user")})
	require.NoError(t, err)
	return s, root
}

func TestNewStoreRequiresAssetRoot(t *testing.T) {
	_, err := NewStore(Config{})
	assert.Error(t, err)
}

func TestNewStoreCreatesUserDataRoot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "saves", "slot")
	_, err := NewStore(Config{AssetRoot: t.TempDir(), UserDataRoot: dir})
	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestLoadDecodesOnce(t *testing.T) {
	s, root := newTestStore(t)
	writeFile(t, root, "level.txt", []byte("hello"))

	calls := 0
	s.RegisterDecoder(KindBytes, func(key string, data []byte) (any, error) {
		calls++
		return decodeBytes(key, data)
	})

	first, err := s.Load("level.txt", KindBytes)
	require.NoError(t, err)
	second, err := s.Load("level.txt", KindBytes)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, s.Len())
}

func TestTextureLoadQueuesUpload(t *testing.T) {
	s, root := newTestStore(t)
	writePNG(t, root, "img/button.png", 4, 2)

	tex, err := s.Texture("img/button.png")
	require.NoError(t, err)
	w, h := tex.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 2, h)

	again, err := s.Texture("img/button.png")
	require.NoError(t, err)
	assert.Same(t, tex, again)

	fresh := s.TakeNewTextures()
	require.Len(t, fresh, 1)
	assert.Same(t, tex, fresh[0])
	assert.Empty(t, s.TakeNewTextures())
}

func TestLoadErrorsLeaveStoreUnchanged(t *testing.T) {
	s, root := newTestStore(t)
	writeFile(t, root, "broken.png", []byte("not an image"))
	writeFile(t, root, "noise.wav", []byte("garbage!"))

	_, err := s.Texture("missing.png")
	assert.True(t, IsNotFound(err), "got %v", err)

	_, err = s.Texture("broken.png")
	assert.True(t, IsDecodeFailure(err), "got %v", err)

	_, err = s.Sound("noise.wav")
	assert.True(t, IsDecodeFailure(err), "got %v", err)

	assert.Zero(t, s.Len())
	assert.Empty(t, s.TakeNewTextures())
}

func TestKindMismatchIsSchemaMismatch(t *testing.T) {
	s, root := newTestStore(t)
	writePNG(t, root, "a.png", 1, 1)

	_, err := s.Bytes("a.png")
	require.NoError(t, err)

	_, err = s.Texture("a.png")
	assert.True(t, IsSchemaMismatch(err), "got %v", err)
}

func TestSoundFormats(t *testing.T) {
	s, root := newTestStore(t)
	writeFile(t, root, "hit.wav", []byte("RIFF\x00\x00\x00\x00WAVEfmt "))
	writeFile(t, root, "music.ogg", []byte("OggS\x00\x02"))

	wav, err := s.Sound("hit.wav")
	require.NoError(t, err)
	assert.Equal(t, SoundWAV, wav.Format)

	ogg, err := s.Sound("music.ogg")
	require.NoError(t, err)
	assert.Equal(t, SoundOGG, ogg.Format)
}

func TestSetAssetRootIsNotRetroactive(t *testing.T) {
	s, first := newTestStore(t)
	second := t.TempDir()
	writeFile(t, first, "a.txt", []byte("first"))
	writeFile(t, second, "a.txt", []byte("second"))
	writeFile(t, second, "b.txt", []byte("only second"))

	a, err := s.Bytes("a.txt")
	require.NoError(t, err)

	s.SetAssetRoot(second)
	assert.Equal(t, second, s.AssetRoot())

	cached, err := s.Bytes("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "first", string(cached))
	assert.Equal(t, string(a), string(cached))

	b, err := s.Bytes("b.txt")
	require.NoError(t, err)
	assert.Equal(t, "only second", string(b))
}

func TestObserverSeesOutcomes(t *testing.T) {
	s, root := newTestStore(t)
	writeFile(t, root, "a.txt", []byte("a"))

	var outcomes []Outcome
	s.SetObserver(func(_ Kind, o Outcome) { outcomes = append(outcomes, o) })

	_, _ = s.Bytes("a.txt")
	_, _ = s.Bytes("a.txt")
	_, _ = s.Bytes("nope.txt")

	assert.Equal(t, []Outcome{OutcomeMiss, OutcomeHit, OutcomeError}, outcomes)
}

func TestSpriteSheetLoad(t *testing.T) {
	s, root := newTestStore(t)
	writePNG(t, root, "smiley.png", 32, 16)
	writeFile(t, root, "smiley.json", []byte(smileyJSON))

	sheet, err := s.SpriteSheet("smiley.png", "smiley.json")
	require.NoError(t, err)
	require.Len(t, sheet.Frames, 2)
	assert.Equal(t, image.Rect(16, 0, 32, 16), sheet.Frames[1].Rect)
	assert.Contains(t, sheet.Tags, "smile")

	again, err := s.SpriteSheet("smiley.png", "smiley.json")
	require.NoError(t, err)
	assert.Same(t, sheet, again)

	tex, err := s.Texture("smiley.png")
	require.NoError(t, err)
	assert.Same(t, sheet.Texture, tex, "sub-loads are cached under their own keys")
	assert.Equal(t, 3, s.Len())
}

func TestSpriteSheetFailureCachesNothing(t *testing.T) {
	tests := []struct {
		name  string
		meta  string
		check func(error) bool
	}{
		{"missing metadata", "", IsNotFound},
		{"invalid json", "{", IsDecodeFailure},
		{"no frames", `{"meta": {}}`, IsSchemaMismatch},
		{"frame outside texture", `{"frames": [{"frame": {"x": 30, "y": 0, "w": 16, "h": 16}}]}`, IsSchemaMismatch},
		{"bad tag", `{"frames": [{"frame": {"x": 0, "y": 0, "w": 16, "h": 16}}], "meta": {"frameTags": [{"name": "x", "from": 0, "to": 4}]}}`, IsSchemaMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, root := newTestStore(t)
			writePNG(t, root, "sheet.png", 32, 16)
			if tt.meta != "" {
				writeFile(t, root, "sheet.json", []byte(tt.meta))
			}

			_, err := s.SpriteSheet("sheet.png", "sheet.json")
			require.Error(t, err)
			assert.True(t, tt.check(err), "got %v", err)
			assert.Zero(t, s.Len())
			assert.Empty(t, s.TakeNewTextures())
		})
	}
}

func TestReturnedDataDoesNotAliasCache(t *testing.T) {
	s, root := newTestStore(t)
	writeFile(t, root, "level.txt", []byte("abc"))
	writeFile(t, root, "hit.wav", []byte("RIFF\x00\x00\x00\x00WAVEfmt "))

	b, err := s.Bytes("level.txt")
	require.NoError(t, err)
	b[0] = 'X'

	again, err := s.Bytes("level.txt")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))

	snd, err := s.Sound("hit.wav")
	require.NoError(t, err)
	c := snd.Clone()
	c.Data[0] = 'X'
	assert.Equal(t, byte('R'), snd.Data[0])
	assert.Equal(t, snd.Format, c.Format)
}

func TestReadsStayInsideAssetRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "assets")
	writeFile(t, parent, "secret.txt", []byte("outside"))
	s, err := NewStore(Config{AssetRoot: root})
	require.NoError(t, err)

	_, err = s.Bytes("../secret.txt")
	assert.True(t, IsNotFound(err), "got %v", err)
	_, err = s.Bytes("/etc/hostname")
	assert.True(t, IsNotFound(err), "got %v", err)
	assert.Zero(t, s.Len())
}

func TestUnreadableFileIsDecodeFailure(t *testing.T) {
	s, root := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "levels"), 0o755))

	_, err := s.Bytes("levels")
	assert.True(t, IsDecodeFailure(err), "got %v", err)
	assert.Zero(t, s.Len())
}

func TestFailedSpriteSheetReportsNoMisses(t *testing.T) {
	s, root := newTestStore(t)
	writePNG(t, root, "smiley.png", 32, 16)

	type seen struct {
		kind    Kind
		outcome Outcome
	}
	var got []seen
	s.SetObserver(func(k Kind, o Outcome) { got = append(got, seen{k, o}) })

	_, err := s.SpriteSheet("smiley.png", "smiley.json")
	assert.True(t, IsNotFound(err), "got %v", err)
	assert.Equal(t, []seen{{KindBytes, OutcomeError}}, got)
	assert.Zero(t, s.Len())

	got = nil
	writeFile(t, root, "smiley.json", []byte(smileyJSON))
	_, err = s.SpriteSheet("smiley.png", "smiley.json")
	require.NoError(t, err)
	assert.Equal(t, []seen{
		{KindTexture, OutcomeMiss},
		{KindBytes, OutcomeMiss},
		{KindSpriteSheet, OutcomeMiss},
	}, got)
}
