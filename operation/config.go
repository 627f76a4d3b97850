package operation

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/kirsle/configdir"
	"github.com/pelletier/go-toml"
)

// DefaultConfigPath 用户级配置文件，存在时才会被读取
var DefaultConfigPath = filepath.Join(configdir.LocalConfig("upcli"), "config.toml")

// Config 配置文件
type Config struct {
	ApiURL          string `json:"api_url" toml:"api_url"`
	DialTimeoutMs   int    `json:"dial_timeout_ms" toml:"dial_timeout_ms"`
	TimeoutMs       int    `json:"timeout_ms" toml:"timeout_ms"`
	ReadConcurrency int    `json:"read_concurrency" toml:"read_concurrency"`

	originalPath string
}

// ApiBaseURL returns the configured service URL without a trailing slash.
func (config *Config) ApiBaseURL() string {
	if config == nil || strings.TrimSpace(config.ApiURL) == "" {
		return DefaultApiURL
	}
	return strings.TrimRight(strings.TrimSpace(config.ApiURL), "/")
}

func (config *Config) getOriginalPaths() []string {
	paths := make([]string, 0, 1)
	if config.originalPath != "" {
		paths = append(paths, config.originalPath)
	}
	return paths
}

// Load 加载配置文件
func Load(file string) (*Config, error) {
	var configuration Config
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(file))
	if ext == ".json" {
		err = json.Unmarshal(raw, &configuration)
	} else if ext == ".toml" {
		err = toml.Unmarshal(raw, &configuration)
	} else {
		return nil, errors.New("invalid configuration format")
	}
	if err != nil {
		return nil, err
	}
	configuration.originalPath = file

	return &configuration, nil
}

// ResolveConfig picks the configuration for one command run: an explicit file
// wins, then the file named by UPCLI_CONFIG, then DefaultConfigPath when it
// exists. Without any of them the built-in defaults apply.
func ResolveConfig(file string) (*Config, error) {
	if file != "" {
		return Load(file)
	}
	if c := CurrentConfig(); c != nil {
		return c, nil
	}
	if _, err := os.Stat(DefaultConfigPath); err == nil {
		return Load(DefaultConfigPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return &Config{}, nil
}
