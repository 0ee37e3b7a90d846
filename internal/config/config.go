package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jask/stitchlist/internal/draggable"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Drag     DragConfig
	UI       UIConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// DragConfig tunes the drag engine. Distances are in terminal cells.
type DragConfig struct {
	MoveMode           string        `mapstructure:"move_mode"`
	TouchSlop          int           `mapstructure:"touch_slop"`
	CheckCanDrop       bool          `mapstructure:"check_can_drop"`
	AutoScrollInterval time.Duration `mapstructure:"autoscroll_interval"`
	EdgeScrollRows     int           `mapstructure:"edge_scroll_rows"`
	InitiateOnMove     bool          `mapstructure:"initiate_on_move"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// Sources are created on first run, in this order.
	Sources           []string
	ShowHeaders       bool `mapstructure:"show_headers"`
	FilterMaxDistance int  `mapstructure:"filter_max_distance"`
}

// LogConfig controls the diagnostics file. The terminal belongs to the UI,
// so there is no stdout sink.
type LogConfig struct {
	Path   string
	Level  string
	Format string
}

func home() string { return os.Getenv("HOME") }

// Path is the config file location, honouring STITCHLIST_CONFIG.
func Path() string {
	if p := os.Getenv("STITCHLIST_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(home(), ".config", "stitchlist", "config.toml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", filepath.Join(home(), ".local", "share", "stitchlist", "stitchlist.db"))
	v.SetDefault("drag.move_mode", "shift")
	v.SetDefault("drag.touch_slop", 0)
	v.SetDefault("drag.check_can_drop", false)
	v.SetDefault("drag.autoscroll_interval", "80ms")
	v.SetDefault("drag.edge_scroll_rows", 1)
	v.SetDefault("drag.initiate_on_move", true)
	v.SetDefault("ui.sources", []string{"Inbox", "Today", "Someday"})
	v.SetDefault("ui.show_headers", true)
	v.SetDefault("ui.filter_max_distance", 1)
	v.SetDefault("log.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads configuration from file and env. Env var overrides use prefix STITCHLIST_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if p := os.Getenv("STITCHLIST_CONFIG"); p != "" {
		v.SetConfigFile(p)
	} else {
		v.AddConfigPath(filepath.Join(home(), ".config", "stitchlist"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("STITCHLIST")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("config: database.path is empty")
	}
	if _, err := draggable.ParseMoveMode(c.Drag.MoveMode); err != nil {
		return fmt.Errorf("config: drag.move_mode: %w", err)
	}
	if c.Drag.TouchSlop < 0 {
		return fmt.Errorf("config: drag.touch_slop %d is negative", c.Drag.TouchSlop)
	}
	if c.Drag.AutoScrollInterval < 0 {
		return fmt.Errorf("config: drag.autoscroll_interval %v is negative", c.Drag.AutoScrollInterval)
	}
	if c.Drag.EdgeScrollRows < 0 {
		return fmt.Errorf("config: drag.edge_scroll_rows %d is negative", c.Drag.EdgeScrollRows)
	}
	if c.UI.FilterMaxDistance < 0 {
		return fmt.Errorf("config: ui.filter_max_distance %d is negative", c.UI.FilterMaxDistance)
	}
	seen := make(map[string]bool, len(c.UI.Sources))
	for _, s := range c.UI.Sources {
		name := strings.TrimSpace(s)
		if name == "" {
			return errors.New("config: ui.sources has an empty name")
		}
		if seen[name] {
			return fmt.Errorf("config: ui.sources lists %q twice", name)
		}
		seen[name] = true
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("config: log.format %q, want json or console", c.Log.Format)
	}
	return nil
}

// EnsureFile writes cfg to Path when no config file exists yet, so a first
// run leaves an editable file behind. It reports whether it wrote one.
func EnsureFile(cfg Config) (bool, error) {
	if _, err := os.Stat(Path()); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat config: %w", err)
	}
	if err := Save(cfg); err != nil {
		return false, err
	}
	return true, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("drag.move_mode", cfg.Drag.MoveMode)
	v.Set("drag.touch_slop", cfg.Drag.TouchSlop)
	v.Set("drag.check_can_drop", cfg.Drag.CheckCanDrop)
	v.Set("drag.autoscroll_interval", cfg.Drag.AutoScrollInterval.String())
	v.Set("drag.edge_scroll_rows", cfg.Drag.EdgeScrollRows)
	v.Set("drag.initiate_on_move", cfg.Drag.InitiateOnMove)
	v.Set("ui.sources", cfg.UI.Sources)
	v.Set("ui.show_headers", cfg.UI.ShowHeaders)
	v.Set("ui.filter_max_distance", cfg.UI.FilterMaxDistance)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
