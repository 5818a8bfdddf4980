package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string) error {
	// Defaults are registered per key: viper does not merge struct
	// defaults with partial config files, so a file that sets only
	// neo4j.uri must still inherit the rest of the section.
	defaults := DefaultConfig()
	viper.SetDefault("cors_origin", defaults.CORSOrigin)
	viper.SetDefault("catalog.endpoint", defaults.Catalog.Endpoint)
	viper.SetDefault("google_books.api_key", defaults.GoogleBooks.APIKey)
	viper.SetDefault("shelf.books_per_shelf", defaults.Shelf.BooksPerShelf)
	viper.SetDefault("shelf.total_shelves", defaults.Shelf.TotalShelves)
	viper.SetDefault("neo4j.uri", defaults.Neo4j.URI)
	viper.SetDefault("neo4j.username", defaults.Neo4j.Username)
	viper.SetDefault("neo4j.password", defaults.Neo4j.Password)
	viper.SetDefault("neo4j.manage_container", defaults.Neo4j.ManageContainer)
	viper.SetDefault("neo4j.container.name", defaults.Neo4j.Container.Name)
	viper.SetDefault("neo4j.container.image", defaults.Neo4j.Container.Image)
	viper.SetDefault("neo4j.container.bolt_port", defaults.Neo4j.Container.BoltPort)
	viper.SetDefault("neo4j.container.http_port", defaults.Neo4j.Container.HTTPPort)
	viper.SetDefault("sqlite.path", defaults.SQLite.Path)

	// Environment variables with BOOKSHELF_ prefix
	viper.SetEnvPrefix("BOOKSHELF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.growth-bookshelf")
	}

	// Try to read config file (not required)
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load validates and parses the current viper state into a Config.
func (cm *Manager) load() (*Config, error) {
	if err := ValidateSettings(viper.AllSettings()); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration. A reload that
// fails validation keeps the previous configuration.
func (cm *Manager) WatchConfig() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	viper.WatchConfig()
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Growth Bookshelf configuration
# Secrets use ${ENV_VAR} syntax to reference environment variables
# Set these in your shell: export GOOGLE_BOOKS_API_KEY=xxx NEO4J_PASSWORD=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
