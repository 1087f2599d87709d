package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresets(t *testing.T) {
	for _, name := range []string{"", "default", "development", "dev", "release"} {
		s, err := Preset(name)
		require.NoError(t, err, name)
		assert.NoError(t, s.Validate(), name)
	}
	_, err := Preset("turbo")
	assert.Error(t, err)

	assert.Equal(t, "debug", Development().Log.Level)
	assert.True(t, Development().Diagnostics.RecordInput)
	assert.Empty(t, Release().Diagnostics.MetricsAddr)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"empty asset root", func(s *Settings) { s.AssetRoot = "" }},
		{"empty user root", func(s *Settings) { s.UserDataRoot = "" }},
		{"zero width", func(s *Settings) { s.Render.Width = 0 }},
		{"negative delta", func(s *Settings) { s.FixedDelta = -1 }},
		{"bad level", func(s *Settings) { s.Log.Level = "shout" }},
		{"negative rate", func(s *Settings) { s.Diagnostics.MaxMessagesPerSecond = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "emerald.yaml")
	want := Development()
	want.Title = "Saved"
	want.FixedDelta = 1.0 / 60

	require.NoError(t, Save(path, want))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emerald.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render:\n  width: 1280\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1280, s.Render.Width)
	assert.Equal(t, 360, s.Render.Height)
	assert.Equal(t, "assets", s.AssetRoot)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("EMERALD_RENDER_HEIGHT", "720")
	t.Setenv("EMERALD_LOG_LEVEL", "error")

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 720, s.Render.Height)
	assert.Equal(t, "error", s.Log.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emerald.yaml")
	require.NoError(t, os.WriteFile(path, []byte("asset_root: \"\"\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWatcherDeliversReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emerald.yaml")
	require.NoError(t, Save(path, Default()))

	w, err := Watch(path, Default(), 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	changed := Default()
	changed.Log.Level = "debug"
	require.NoError(t, Save(path, changed))

	select {
	case s := <-w.Updates():
		assert.Equal(t, "debug", s.Log.Level)
	case err := <-w.Errors():
		t.Fatalf("unexpected watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload delivered")
	}
}
