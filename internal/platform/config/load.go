package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. EMERALD_RENDER_WIDTH.
const EnvPrefix = "EMERALD"

// Load reads settings from path over Default, then applies environment
// overrides. An empty path skips the file.
func Load(path string) (Settings, error) {
	return LoadOver(path, Default())
}

// LoadOver is Load with a caller-chosen base, usually a preset.
func LoadOver(path string, base Settings) (Settings, error) {
	v := viper.New()
	setDefaults(v, base)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if filepath.Ext(path) == "" {
			v.SetConfigType("yaml")
		}
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid config: %w", err)
	}
	return s, nil
}

// Save writes s as YAML, creating parent directories.
func Save(path string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// setDefaults registers every key so AutomaticEnv can see it.
func setDefaults(v *viper.Viper, s Settings) {
	v.SetDefault("title", s.Title)
	v.SetDefault("asset_root", s.AssetRoot)
	v.SetDefault("user_data_root", s.UserDataRoot)
	v.SetDefault("render.width", s.Render.Width)
	v.SetDefault("render.height", s.Render.Height)
	v.SetDefault("input.touches_to_mouse", s.Input.TouchesToMouse)
	v.SetDefault("input.mouse_to_touch", s.Input.MouseToTouch)
	v.SetDefault("fixed_delta", s.FixedDelta)
	v.SetDefault("log.level", s.Log.Level)
	v.SetDefault("log.file", s.Log.File)
	v.SetDefault("diagnostics.metrics_addr", s.Diagnostics.MetricsAddr)
	v.SetDefault("diagnostics.hub_addr", s.Diagnostics.HubAddr)
	v.SetDefault("diagnostics.profile_db", s.Diagnostics.ProfileDB)
	v.SetDefault("diagnostics.record_input", s.Diagnostics.RecordInput)
	v.SetDefault("diagnostics.max_messages_per_second", s.Diagnostics.MaxMessagesPerSecond)
}
