// Package config provides configuration for the whoami binary.
// Loads from: env vars > whoami.toml > built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultConfigFile is read from the working directory when no path is given.
const DefaultConfigFile = "whoami.toml"

// Config holds all whoami configuration, loaded from TOML + env.
type Config struct {
	Content ContentConfig `toml:"content"`
	Render  RenderConfig  `toml:"render"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
}

// ContentConfig locates the document collections.
type ContentConfig struct {
	BlogDir          string `toml:"blog_dir"`
	RoadmapDir       string `toml:"roadmap_dir"`
	Extension        string `toml:"extension"`
	FrontMatterBlock bool   `toml:"front_matter_block"` // decode a leading YAML block as extra fields
}

// RenderConfig controls markdown rendering.
type RenderConfig struct {
	AllowHTML bool `toml:"allow_html"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr      string `toml:"addr"`
	GitHubURL string `toml:"github_url"`
	LogIPs    bool   `toml:"log_ips"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `toml:"level"`  // "debug", "info" (default), "warn", "error"
	Format string `toml:"format"` // "json" (default) or "console"
}

// DefaultConfig returns a Config with all built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Content: ContentConfig{
			BlogDir:    "blogs",
			RoadmapDir: "roadmap",
			Extension:  ".md",
		},
		Render: RenderConfig{
			AllowHTML: true,
		},
		Server: ServerConfig{
			Addr:      ":8000",
			GitHubURL: "https://github.com/demofrager",
			LogIPs:    true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig merges all configuration sources: defaults < TOML file < env vars.
// An empty path falls back to ./whoami.toml when it exists. An explicit path
// that does not exist is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	configPath, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		meta, err := toml.DecodeFile(configPath, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", configPath, err)
		}
		warnUnknownKeys(meta, configPath)
	}

	applyEnv(cfg)
	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return path, nil
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile, nil
	}
	return "", nil
}

// applyEnv overlays environment variables onto cfg.
func applyEnv(cfg *Config) {
	if v := os.Getenv("BLOG_DIR"); v != "" {
		cfg.Content.BlogDir = v
	}
	if v := os.Getenv("ROADMAP_DIR"); v != "" {
		cfg.Content.RoadmapDir = v
	}
	if v := os.Getenv("WHOAMI_FRONT_MATTER_BLOCK"); v != "" {
		cfg.Content.FrontMatterBlock = isTrue(v)
	}
	if v := os.Getenv("WHOAMI_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("GITHUB_URL"); v != "" {
		cfg.Server.GitHubURL = v
	}
	if v, ok := os.LookupEnv("LOG_IPS"); ok {
		cfg.Server.LogIPs = isTrue(v)
	}
	if v := os.Getenv("WHOAMI_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func isTrue(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "true")
}

// GenerateConfig writes a default whoami.toml with comments to path.
// It refuses to overwrite an existing file.
func GenerateConfig(path string) error {
	if path == "" {
		path = DefaultConfigFile
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	return os.WriteFile(path, []byte(generateTOMLContent()), 0o644)
}

func generateTOMLContent() string {
	d := DefaultConfig()
	var b strings.Builder
	b.WriteString("# whoami configuration\n")
	b.WriteString("#\n")
	b.WriteString("# Priority: environment variables > this file > built-in defaults\n")
	b.WriteString("# Environment variables: BLOG_DIR, ROADMAP_DIR, WHOAMI_FRONT_MATTER_BLOCK,\n")
	b.WriteString("#   WHOAMI_ADDR, GITHUB_URL, LOG_IPS, WHOAMI_LOG_LEVEL\n\n")

	b.WriteString("[content]\n")
	fmt.Fprintf(&b, "blog_dir = %q\n", d.Content.BlogDir)
	fmt.Fprintf(&b, "roadmap_dir = %q\n", d.Content.RoadmapDir)
	fmt.Fprintf(&b, "extension = %q\n", d.Content.Extension)
	b.WriteString("# read status/deadline/progress/date from a leading --- YAML block too\n")
	fmt.Fprintf(&b, "front_matter_block = %t\n\n", d.Content.FrontMatterBlock)

	b.WriteString("[render]\n")
	b.WriteString("# pass raw HTML in documents through to pages\n")
	fmt.Fprintf(&b, "allow_html = %t\n\n", d.Render.AllowHTML)

	b.WriteString("[server]\n")
	fmt.Fprintf(&b, "addr = %q\n", d.Server.Addr)
	fmt.Fprintf(&b, "github_url = %q\n", d.Server.GitHubURL)
	b.WriteString("# one access log line per request, with client IP and country\n")
	fmt.Fprintf(&b, "log_ips = %t\n\n", d.Server.LogIPs)

	b.WriteString("[log]\n")
	b.WriteString("# debug | info | warn | error\n")
	fmt.Fprintf(&b, "level = %q\n", d.Log.Level)
	b.WriteString("# json | console\n")
	fmt.Fprintf(&b, "format = %q\n", d.Log.Format)
	return b.String()
}

// ShowConfig returns the effective configuration as TOML.
func ShowConfig(cfg *Config) (string, error) {
	var b strings.Builder
	b.WriteString("# Effective whoami configuration (merged from all sources)\n\n")
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return b.String(), nil
}

// configSuggestions maps common wrong keys to the correct TOML key name.
var configSuggestions = map[string]string{
	"blogs":        "blog_dir",
	"blog_path":    "blog_dir",
	"posts_dir":    "blog_dir",
	"roadmap":      "roadmap_dir",
	"roadmap_path": "roadmap_dir",
	"ext":          "extension",
	"frontmatter":  "front_matter_block",
	"html":         "allow_html",
	"unsafe":       "allow_html",
	"listen":       "addr",
	"address":      "addr",
	"port":         "addr",
	"github":       "github_url",
	"log_ip":       "log_ips",
	"loglevel":     "level",
	"log_level":    "level",
}

// warnUnknownKeys prints warnings for unrecognized config keys.
func warnUnknownKeys(meta toml.MetaData, configPath string) {
	for _, w := range unknownKeyWarnings(meta, configPath) {
		fmt.Fprintln(os.Stderr, w)
	}
}

func unknownKeyWarnings(meta toml.MetaData, configPath string) []string {
	undecoded := meta.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}

	fname := filepath.Base(configPath)
	var out []string
	for _, key := range undecoded {
		keyStr := key.String()
		lastPart := key[len(key)-1]

		if suggestion, ok := configSuggestions[lastPart]; ok {
			out = append(out, fmt.Sprintf("whoami: WARNING: unknown key %q in %s, did you mean %q?",
				keyStr, fname, suggestion))
		} else {
			out = append(out, fmt.Sprintf("whoami: WARNING: unknown key %q in %s (will be ignored)",
				keyStr, fname))
		}
	}
	return out
}
