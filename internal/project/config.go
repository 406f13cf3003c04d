package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the config file looked up from the working directory.
const FileName = "hlrev.toml"

// Config mirrors hlrev.toml.
type Config struct {
	Pattern PatternConfig `toml:"pattern"`
	Batch   BatchConfig   `toml:"batch"`
	Cache   CacheConfig   `toml:"cache"`
}

type PatternConfig struct {
	MaxDepth int  `toml:"max_depth"`
	Strict   bool `toml:"strict"`
}

type BatchConfig struct {
	Jobs int    `toml:"jobs"`
	Out  string `toml:"out"`
	// UI is the progress display: auto, on or off.
	UI string `toml:"ui"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Manifest is a loaded config and where it came from.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Default returns the settings used when no hlrev.toml exists.
// Zero MaxDepth and Jobs mean "use the library default".
func Default() Config {
	return Config{
		Batch: BatchConfig{Out: "patterns"},
		Cache: CacheConfig{Enabled: true},
	}
}

// FindConfig walks up from startDir to locate hlrev.toml.
func FindConfig(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads hlrev.toml above startDir. ok is false when no
// file exists; the returned manifest then carries Default().
func Discover(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return &Manifest{Config: Default()}, false, nil
	}
	m, err := LoadFile(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// LoadFile decodes path over Default(). Relative directories in the file
// are resolved against the file's directory.
func LoadFile(path string) (*Manifest, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Pattern.MaxDepth < 0 {
		return nil, fmt.Errorf("%s: [pattern].max_depth must not be negative", path)
	}
	if cfg.Batch.Jobs < 0 {
		return nil, fmt.Errorf("%s: [batch].jobs must not be negative", path)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Batch.UI)) {
	case "", "auto", "on", "off":
	default:
		return nil, fmt.Errorf("%s: [batch].ui must be auto, on or off, got %q", path, cfg.Batch.UI)
	}
	root := filepath.Dir(path)
	if meta.IsDefined("batch", "out") {
		cfg.Batch.Out = resolve(root, cfg.Batch.Out)
	}
	if meta.IsDefined("cache", "dir") {
		cfg.Cache.Dir = resolve(root, cfg.Cache.Dir)
	}
	return &Manifest{Path: path, Root: root, Config: cfg}, nil
}

func resolve(root, p string) string {
	p = strings.TrimSpace(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, filepath.FromSlash(p))
}
