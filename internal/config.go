package internal

import (
	"fmt"

	"github.com/hbomb79/Hoard/internal/database"
	"github.com/hbomb79/Hoard/internal/download"
	"github.com/hbomb79/Hoard/internal/ingest"
	"github.com/ilyakaznacheev/cleanenv"
	homedir "github.com/mitchellh/go-homedir"
)

// HoardConfig is the struct used to contain the various user config
// supplied by file, with env var overrides.
type HoardConfig struct {
	Ingest        ingest.Config           `yaml:"ingest" env-required:"true"`
	Database      database.DatabaseConfig `yaml:"database" env-required:"true"`
	Download      download.Config         `yaml:"download"`
	YoutubeApiKey string                  `yaml:"youtube_api_key" env:"YOUTUBE_API_KEY" env-required:"true"`
}

// LoadFromFile loads a configuration file formatted in YAML in to a
// HoardConfig struct ready to be passed to the core. The storage path is
// expanded so '~' can be used in the config file.
func (config *HoardConfig) LoadFromFile(configPath string) error {
	if err := cleanenv.ReadConfig(configPath, config); err != nil {
		return fmt.Errorf("failed to load configuration - %w", err)
	}

	expanded, err := homedir.Expand(config.Ingest.StoragePath)
	if err != nil {
		return fmt.Errorf("failed to expand storage path '%s' - %w", config.Ingest.StoragePath, err)
	}
	config.Ingest.StoragePath = expanded

	return nil
}
