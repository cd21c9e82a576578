package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// ConfigCache loads and caches per-locality configuration files.
type ConfigCache struct {
	localitiesDir string
	cache         map[string]*Config
	mu            sync.RWMutex
}

func NewConfigCache(localitiesDir string) *ConfigCache {
	return &ConfigCache{
		localitiesDir: localitiesDir,
		cache:         make(map[string]*Config),
	}
}

func (cc *ConfigCache) Run() error {
	if _, err := os.Stat(cc.localitiesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.localitiesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		// Derive locality name from filename (remove .yml extension)
		fileName := filepath.Base(file)
		localityName := fileName[:len(fileName)-4]

		config, err := cc.LoadConfig(localityName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Locality configuration loaded", "locality", localityName,
			"enabled", config.Settings.Enabled, "collect_interval", config.Settings.CollectInterval)
	}

	return nil
}

func (cc *ConfigCache) LoadConfig(localityName string) (*Config, error) {
	configFile := cc.getConfigFilePath(localityName)
	config, err := cc.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	config.Name = localityName

	if err := cc.validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[config.Name] = config

	return config, nil
}

func (cc *ConfigCache) GetConfig(localityName string) (*Config, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	config, ok := cc.cache[localityName]
	if !ok {
		return nil, fmt.Errorf("locality config with name '%s' not found", localityName)
	}
	return config, nil
}

func (cc *ConfigCache) GetConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	configsCopy := make(map[string]*Config, len(cc.cache))
	for k, v := range cc.cache {
		configsCopy[k] = v
	}
	return configsCopy
}

func (cc *ConfigCache) GetEnabledConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	enabledConfigs := make(map[string]*Config)
	for k, v := range cc.cache {
		if v.Settings.Enabled {
			enabledConfigs[k] = v
		}
	}
	return enabledConfigs
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

func (cc *ConfigCache) parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if config.Settings.CollectInterval == 0 {
		config.Settings.CollectInterval = 21600
	}
	if config.Settings.MaxItemsPerSource == 0 {
		config.Settings.MaxItemsPerSource = 30
	}

	return &config, nil
}

func (cc *ConfigCache) validateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}

	requiredFields := map[string]string{
		"locality name": config.Name,
		"city":          config.City,
		"country":       config.Country,
	}

	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	nonNegativeFields := map[string]int{
		"collect interval":     config.Settings.CollectInterval,
		"max items per source": config.Settings.MaxItemsPerSource,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	for i, kind := range config.Settings.SourceKinds {
		if _, ok := ParseKind(kind); !ok {
			return fmt.Errorf("invalid source kind at index %d: %s", i, kind)
		}
	}

	return nil
}

func (cc *ConfigCache) getConfigFilePath(localityName string) string {
	return filepath.Join(cc.localitiesDir, localityName+".yml")
}

// Locality returns the locality tuple a config targets.
func (c *Config) Locality() Locality {
	return Locality{City: c.City, Region: c.Region, Country: c.Country}
}

// Kinds returns the configured source kinds, or every kind when the config
// does not restrict them.
func (c *Config) Kinds() []Kind {
	if len(c.Settings.SourceKinds) == 0 {
		return AllKinds()
	}
	kinds := make([]Kind, 0, len(c.Settings.SourceKinds))
	for _, s := range c.Settings.SourceKinds {
		if k, ok := ParseKind(s); ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
