package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrOutsideUserData is returned for names that would escape the user-data root.
var ErrOutsideUserData = errors.New("path escapes user data root")

// Writer saves files under a user-data root fixed at creation.
type Writer struct {
	root string
}

// NewWriter binds a writer to root.
func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// Root returns the directory the writer saves into.
func (w *Writer) Root() string { return w.root }

// Path resolves name under the root.
func (w *Writer) Path(name string) (string, error) {
	if w.root == "" {
		return "", errors.New("user data root is not configured")
	}
	local := filepath.FromSlash(name)
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %s", ErrOutsideUserData, name)
	}
	return filepath.Join(w.root, local), nil
}

// Write replaces the file name with data, creating parent directories.
func (w *Writer) Write(name string, data []byte) error {
	full, err := w.Path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// WriteString is Write for text.
func (w *Writer) WriteString(name, text string) error {
	return w.Write(name, []byte(text))
}

// Save encodes v as JSON or YAML depending on the extension of name.
func (w *Writer) Save(name string, v any) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		data, err = json.MarshalIndent(v, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("cannot infer encoding for %s: use .json, .yaml or .yml", name)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return w.Write(name, data)
}

// Read returns the contents of name.
func (w *Writer) Read(name string) ([]byte, error) {
	full, err := w.Path(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

// Load decodes the JSON or YAML file name into v.
func (w *Writer) Load(name string, v any) error {
	data, err := w.Read(name)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return json.Unmarshal(data, v)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	}
	return fmt.Errorf("cannot infer encoding for %s: use .json, .yaml or .yml", name)
}
