// Package assets is the engine's keyed cache of decoded resources.
//
// A logical key (the path passed to Load) maps to at most one decoded
// payload, and the decode cost is paid exactly once per key. Failed loads
// never leave partial state behind, including composite loads that touch
// several files.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Config holds the read and write roots of a Store.
type Config struct {
	AssetRoot    string `mapstructure:"asset_root" yaml:"asset_root"`
	UserDataRoot string `mapstructure:"user_data_root" yaml:"user_data_root"`
}

// Outcome labels a load for observers.
type Outcome string

const (
	OutcomeHit   Outcome = "hit"
	OutcomeMiss  Outcome = "miss"
	OutcomeError Outcome = "error"
)

// Observer is notified of every Load.
type Observer func(kind Kind, outcome Outcome)

// Store caches decoded assets. It is owned by a single engine and is not
// safe for concurrent use.
type Store struct {
	cfg      Config
	records  map[string]*Record
	decoders map[Kind]Decoder
	observer Observer

	// textures inserted since the last TakeNewTextures call
	fresh []*Texture
}

// NewStore creates a store and ensures the user-data root exists.
func NewStore(cfg Config) (*Store, error) {
	if cfg.AssetRoot == "" {
		return nil, errors.New("asset root must not be empty")
	}
	if cfg.UserDataRoot != "" {
		if err := os.MkdirAll(cfg.UserDataRoot, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create user data root: %w", err)
		}
	}

	return &Store{
		cfg:      cfg,
		records:  make(map[string]*Record),
		decoders: defaultDecoders(),
	}, nil
}

// SetAssetRoot changes where subsequent loads read from. Cached records are kept.
func (s *Store) SetAssetRoot(root string) { s.cfg.AssetRoot = root }

// SetUserDataRoot changes where Writers created afterwards write to.
func (s *Store) SetUserDataRoot(root string) { s.cfg.UserDataRoot = root }

// AssetRoot returns the current read root.
func (s *Store) AssetRoot() string { return s.cfg.AssetRoot }

// UserDataRoot returns the current write root.
func (s *Store) UserDataRoot() string { return s.cfg.UserDataRoot }

// RegisterDecoder replaces the decoder used for kind.
func (s *Store) RegisterDecoder(kind Kind, d Decoder) { s.decoders[kind] = d }

// SetObserver installs fn to be told about every load outcome.
func (s *Store) SetObserver(fn Observer) { s.observer = fn }

// Len returns the number of cached records.
func (s *Store) Len() int { return len(s.records) }

// Get returns the cached record for key without loading.
func (s *Store) Get(key string) (*Record, bool) {
	r, ok := s.records[key]
	return r, ok
}

// Load returns the cached record for path, decoding and caching it on first use.
func (s *Store) Load(path string, kind Kind) (*Record, error) {
	txn := s.begin()
	rec, err := txn.load(path, kind)
	if err != nil {
		return nil, err
	}
	txn.commit()
	return rec, nil
}

// Texture loads an image.
func (s *Store) Texture(path string) (*Texture, error) {
	rec, err := s.Load(path, KindTexture)
	if err != nil {
		return nil, err
	}
	return rec.Payload.(*Texture), nil
}

// Sound loads an encoded sound.
func (s *Store) Sound(path string) (*Sound, error) {
	rec, err := s.Load(path, KindSound)
	if err != nil {
		return nil, err
	}
	return rec.Payload.(*Sound), nil
}

// Bytes loads a file verbatim and returns a copy; the cached slice is never
// handed out.
func (s *Store) Bytes(path string) ([]byte, error) {
	rec, err := s.Load(path, KindBytes)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(rec.Payload.([]byte)), nil
}

// Font loads an OpenType or TrueType font.
func (s *Store) Font(path string) (*Font, error) {
	rec, err := s.Load(path, KindFont)
	if err != nil {
		return nil, err
	}
	return rec.Payload.(*Font), nil
}

// SpriteSheet loads an image and its Aseprite JSON metadata as one record
// keyed by both paths. Either sub-load failing caches nothing.
func (s *Store) SpriteSheet(texturePath, metadataPath string) (*SpriteSheet, error) {
	key := texturePath + "#" + metadataPath

	if rec, ok := s.records[key]; ok {
		if rec.Kind != KindSpriteSheet {
			s.observe(KindSpriteSheet, OutcomeError)
			return nil, schemaMismatch(key, "cached as %s, requested as %s", rec.Kind, KindSpriteSheet)
		}
		s.observe(KindSpriteSheet, OutcomeHit)
		return rec.Payload.(*SpriteSheet), nil
	}

	txn := s.begin()
	texRec, err := txn.load(texturePath, KindTexture)
	if err != nil {
		return nil, err
	}
	metaRec, err := txn.load(metadataPath, KindBytes)
	if err != nil {
		return nil, err
	}

	sheet, err := parseSpriteSheet(key, texRec.Payload.(*Texture), metaRec.Payload.([]byte))
	if err != nil {
		s.observe(KindSpriteSheet, OutcomeError)
		return nil, err
	}

	txn.stage(&Record{Key: key, Kind: KindSpriteSheet, Payload: sheet})
	txn.commit()
	return sheet, nil
}

// TakeNewTextures returns the textures cached since the previous call.
// Rendering backends use it to upload new images before drawing.
func (s *Store) TakeNewTextures() []*Texture {
	out := s.fresh
	s.fresh = nil
	return out
}

// NewWriter returns a Writer bound to the current user-data root.
func (s *Store) NewWriter() *Writer {
	return NewWriter(s.cfg.UserDataRoot)
}

func (s *Store) insert(rec *Record) {
	s.records[rec.Key] = rec
	if tex, ok := rec.Payload.(*Texture); ok {
		s.fresh = append(s.fresh, tex)
	}
}

func (s *Store) observe(kind Kind, outcome Outcome) {
	if s.observer != nil {
		s.observer(kind, outcome)
	}
}

func (s *Store) read(path string) ([]byte, error) {
	rel := filepath.FromSlash(path)
	if !filepath.IsLocal(rel) {
		return nil, &AssetError{Code: ErrCodeNotFound, Path: path, Message: "outside the asset root"}
	}
	data, err := os.ReadFile(filepath.Join(s.cfg.AssetRoot, rel))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &AssetError{Code: ErrCodeNotFound, Path: path, Err: err}
		}
		return nil, &AssetError{Code: ErrCodeDecodeFailure, Path: path, Message: "file exists but cannot be read", Err: err}
	}
	return data, nil
}

func (s *Store) decode(path string, kind Kind) (*Record, error) {
	dec, ok := s.decoders[kind]
	if !ok {
		return nil, schemaMismatch(path, "no decoder for kind %s", kind)
	}

	data, err := s.read(path)
	if err != nil {
		return nil, err
	}

	payload, err := dec(path, data)
	if err != nil {
		var ae *AssetError
		if errors.As(err, &ae) {
			if ae.Path == "" {
				ae.Path = path
			}
			return nil, ae
		}
		return nil, &AssetError{Code: ErrCodeDecodeFailure, Path: path, Err: err}
	}
	return &Record{Key: path, Kind: kind, Payload: payload}, nil
}

// loadTxn stages decoded records so a multi-file load commits all or nothing.
// Misses are reported on commit; an aborted load reports only its error.
type loadTxn struct {
	s      *Store
	staged []*Record
}

func (s *Store) begin() *loadTxn {
	return &loadTxn{s: s}
}

func (t *loadTxn) load(path string, kind Kind) (*Record, error) {
	if rec, ok := t.s.records[path]; ok {
		if rec.Kind != kind {
			t.s.observe(kind, OutcomeError)
			return nil, schemaMismatch(path, "cached as %s, requested as %s", rec.Kind, kind)
		}
		t.s.observe(kind, OutcomeHit)
		return rec, nil
	}
	for _, rec := range t.staged {
		if rec.Key == path {
			if rec.Kind != kind {
				return nil, schemaMismatch(path, "staged as %s, requested as %s", rec.Kind, kind)
			}
			return rec, nil
		}
	}

	rec, err := t.s.decode(path, kind)
	if err != nil {
		t.s.observe(kind, OutcomeError)
		return nil, err
	}
	t.stage(rec)
	return rec, nil
}

func (t *loadTxn) stage(rec *Record) {
	t.staged = append(t.staged, rec)
}

func (t *loadTxn) commit() {
	for _, rec := range t.staged {
		t.s.insert(rec)
		t.s.observe(rec.Kind, OutcomeMiss)
	}
	t.staged = nil
}
