package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type TemplatesConfig struct {
	Dir        string   `koanf:"dir"`
	Watch      bool     `koanf:"watch"`
	DebounceMS int      `koanf:"debounce_ms"`
	Ignore     []string `koanf:"ignore"`
}

type ProfilesConfig struct {
	DBPath string `koanf:"db_path"`
}

type RenderConfig struct {
	SofficePath      string `koanf:"soffice_path"`
	DPI              int    `koanf:"dpi"`
	Workers          int    `koanf:"workers"`
	TimeoutS         int    `koanf:"timeout_s"`
	FailureThreshold int    `koanf:"failure_threshold"`
	CooldownS        int    `koanf:"cooldown_s"`
}

type CritiqueConfig struct {
	ContrastThreshold float64 `koanf:"contrast_threshold"`
}

type FetchConfig struct {
	TimeoutS int   `koanf:"timeout_s"`
	MaxBytes int64 `koanf:"max_bytes"`
}

type SaveConfig struct {
	SafeDir string `koanf:"safe_dir"`
}

type Config struct {
	DataDir    string          `koanf:"data_dir"`
	SocketPath string          `koanf:"socket_path"`
	Log        LogConfig       `koanf:"log"`
	Templates  TemplatesConfig `koanf:"templates"`
	Profiles   ProfilesConfig  `koanf:"profiles"`
	Render     RenderConfig    `koanf:"render"`
	Critique   CritiqueConfig  `koanf:"critique"`
	Fetch      FetchConfig     `koanf:"fetch"`
	Save       SaveConfig      `koanf:"save"`
}

// Load builds the configuration from defaults, an optional TOML file, and
// SLIDESMITH_-prefixed environment variables, in that order of precedence.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	dataDir := defaultDataDir()

	k.Load(confmap.Provider(map[string]interface{}{
		"data_dir":                    dataDir,
		"socket_path":                 filepath.Join(dataDir, "slidesmith.sock"),
		"log.level":                   "info",
		"log.format":                  "text",
		"templates.dir":               filepath.Join(dataDir, "templates"),
		"templates.watch":             true,
		"templates.debounce_ms":       300,
		"templates.ignore":            []string{"**/*.tmp", "**/.~*", "**/.*.swp"},
		"profiles.db_path":            filepath.Join(dataDir, "profiles.db"),
		"render.soffice_path":         "",
		"render.dpi":                  150,
		"render.workers":              2,
		"render.timeout_s":            120,
		"render.failure_threshold":    3,
		"render.cooldown_s":           30,
		"critique.contrast_threshold": 120.0,
		"fetch.timeout_s":             30,
		"fetch.max_bytes":             32 * 1024 * 1024,
		"save.safe_dir":               "",
	}, "."), nil)

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		defaultPath := filepath.Join(dataDir, "config.toml")
		if _, err := os.Stat(defaultPath); err == nil {
			if err := k.Load(file.Provider(defaultPath), toml.Parser()); err != nil {
				return nil, fmt.Errorf("error loading config: %w", err)
			}
		}
	}

	// Double underscore separates sections so multi-word keys survive:
	// SLIDESMITH_RENDER__SOFFICE_PATH -> render.soffice_path.
	k.Load(env.Provider("SLIDESMITH_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "SLIDESMITH_"))
		return strings.Replace(s, "__", ".", -1)
	}), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &cfg, nil
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".slidesmith"
	}
	return filepath.Join(homeDir, ".slidesmith")
}

// SafeOutputDir resolves the directory unsafe save paths are redirected to.
func (c *Config) SafeOutputDir() string {
	if c.Save.SafeDir != "" {
		return c.Save.SafeDir
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		docs := filepath.Join(homeDir, "Documents")
		if info, err := os.Stat(docs); err == nil && info.IsDir() {
			return docs
		}
	}
	return filepath.Join(c.DataDir, "output")
}

func (c *Config) DebounceWindow() time.Duration {
	if c.Templates.DebounceMS <= 0 {
		return 300 * time.Millisecond
	}
	return time.Duration(c.Templates.DebounceMS) * time.Millisecond
}

func (c *Config) FetchTimeout() time.Duration {
	if c.Fetch.TimeoutS <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Fetch.TimeoutS) * time.Second
}

func (c *Config) RenderTimeout() time.Duration {
	if c.Render.TimeoutS <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.Render.TimeoutS) * time.Second
}

func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.DataDir, c.Templates.Dir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}
	return nil
}
