package assets

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saveSlot struct {
	Level int    `json:"level" yaml:"level"`
	Name  string `json:"name" yaml:"name"`
}

func TestWriterSaveAndLoad(t *testing.T) {
	w := NewWriter(t.TempDir())

	for _, name := range []string{"slot.json", "slots/slot.yaml"} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, w.Save(name, saveSlot{Level: 3, Name: "frank"}))

			var got saveSlot
			require.NoError(t, w.Load(name, &got))
			assert.Equal(t, saveSlot{Level: 3, Name: "frank"}, got)
		})
	}
}

func TestWriterWriteString(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)
	require.NoError(t, w.WriteString("notes/log.txt", "hi"))

	data, err := w.Read("notes/log.txt")
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))
	assert.FileExists(t, filepath.Join(root, "notes", "log.txt"))
}

func TestWriterRejectsEscapes(t *testing.T) {
	w := NewWriter(t.TempDir())
	err := w.Write("../outside.txt", []byte("x"))
	assert.True(t, errors.Is(err, ErrOutsideUserData))
}

func TestWriterRejectsUnknownEncoding(t *testing.T) {
	w := NewWriter(t.TempDir())
	assert.Error(t, w.Save("slot.bin", saveSlot{}))
}

func TestWriterWithoutRoot(t *testing.T) {
	assert.Error(t, NewWriter("").Write("a.txt", nil))
}
