// Package config holds engine settings and their tuned presets.
package config

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Settings configures an engine instance.
type Settings struct {
	Title        string `mapstructure:"title" yaml:"title"`
	AssetRoot    string `mapstructure:"asset_root" yaml:"asset_root"`
	UserDataRoot string `mapstructure:"user_data_root" yaml:"user_data_root"`

	Render RenderSettings `mapstructure:"render" yaml:"render"`
	Input  InputSettings  `mapstructure:"input" yaml:"input"`

	// FixedDelta, in seconds, replaces the measured frame delta when positive.
	FixedDelta float64 `mapstructure:"fixed_delta" yaml:"fixed_delta"`

	Log         LogSettings         `mapstructure:"log" yaml:"log"`
	Diagnostics DiagnosticsSettings `mapstructure:"diagnostics" yaml:"diagnostics"`
}

// RenderSettings is the logical screen resolution.
type RenderSettings struct {
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

// InputSettings toggles channel projection between touch and mouse.
type InputSettings struct {
	TouchesToMouse bool `mapstructure:"touches_to_mouse" yaml:"touches_to_mouse"`
	MouseToTouch   bool `mapstructure:"mouse_to_touch" yaml:"mouse_to_touch"`
}

// LogSettings configures the logging engine.
type LogSettings struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// DiagnosticsSettings controls the optional debug surfaces. Empty addresses
// disable the matching server.
type DiagnosticsSettings struct {
	MetricsAddr          string `mapstructure:"metrics_addr" yaml:"metrics_addr"`
	HubAddr              string `mapstructure:"hub_addr" yaml:"hub_addr"`
	ProfileDB            string `mapstructure:"profile_db" yaml:"profile_db"`
	RecordInput          bool   `mapstructure:"record_input" yaml:"record_input"`
	MaxMessagesPerSecond int    `mapstructure:"max_messages_per_second" yaml:"max_messages_per_second"`
}

// Default returns settings suitable for shipping a small game.
func Default() Settings {
	return Settings{
		Title:        "Emerald",
		AssetRoot:    "assets",
		UserDataRoot: "userdata",
		Render:       RenderSettings{Width: 640, Height: 360},
		Input:        InputSettings{TouchesToMouse: true},
		Log:          LogSettings{Level: "info"},
		Diagnostics: DiagnosticsSettings{
			MaxMessagesPerSecond: 30, // stats are per frame; the hub samples them
		},
	}
}

// Development turns on every diagnostic surface.
func Development() Settings {
	s := Default()
	s.Log.Level = "debug"
	s.Diagnostics = DiagnosticsSettings{
		MetricsAddr:          ":9090",
		HubAddr:              ":8081",
		ProfileDB:            "emerald-profile.db",
		RecordInput:          true,
		MaxMessagesPerSecond: 60,
	}
	return s
}

// Release keeps logging quiet and diagnostics off.
func Release() Settings {
	s := Default()
	s.Log.Level = "warn"
	s.Diagnostics = DiagnosticsSettings{MaxMessagesPerSecond: 10}
	return s
}

// Preset looks up a preset by name: "default", "development" or "release".
func Preset(name string) (Settings, error) {
	switch name {
	case "", "default":
		return Default(), nil
	case "development", "dev":
		return Development(), nil
	case "release":
		return Release(), nil
	}
	return Settings{}, fmt.Errorf("unknown preset %q", name)
}

// Validate reports every invalid field.
func (s Settings) Validate() error {
	var errs []error
	if s.AssetRoot == "" {
		errs = append(errs, errors.New("asset_root must not be empty"))
	}
	if s.UserDataRoot == "" {
		errs = append(errs, errors.New("user_data_root must not be empty"))
	}
	if s.Render.Width <= 0 || s.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("render resolution %dx%d must be positive", s.Render.Width, s.Render.Height))
	}
	if s.FixedDelta < 0 {
		errs = append(errs, fmt.Errorf("fixed_delta %v must not be negative", s.FixedDelta))
	}
	if s.Log.Level != "" {
		if _, err := logrus.ParseLevel(s.Log.Level); err != nil {
			errs = append(errs, fmt.Errorf("log level: %w", err))
		}
	}
	if s.Diagnostics.MaxMessagesPerSecond < 0 {
		errs = append(errs, errors.New("max_messages_per_second must not be negative"))
	}
	return errors.Join(errs...)
}
