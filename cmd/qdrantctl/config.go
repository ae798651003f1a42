package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Aleph-Alpha/qdrant-connector/v1/qdrant"
)

// readConfig loads an optional YAML file and QDRANT_* environment variables.
// Without --config, ./qdrantctl.yaml and $HOME/.config/qdrantctl/qdrantctl.yaml
// are tried; a missing file is not an error.
func readConfig(v *viper.Viper, configPath string) error {
	v.SetEnvPrefix("QDRANT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("qdrantctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/qdrantctl")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// clientConfig overlays the keys set in v on qdrant.DefaultConfig.
func clientConfig(v *viper.Viper) (*qdrant.Config, error) {
	cfg := qdrant.DefaultConfig()

	if s := v.GetString("endpoint"); s != "" {
		cfg.Endpoint = s
	}
	cfg.ApiKey = v.GetString("api_key")
	if d := v.GetDuration("timeout"); d > 0 {
		cfg.Timeout = d
	}
	if v.IsSet("vector_size") {
		cfg.VectorSize = v.GetUint64("vector_size")
	}
	if v.IsSet("distance") {
		d, err := qdrant.ParseDistance(v.GetString("distance"))
		if err != nil {
			return nil, err
		}
		cfg.Distance = d
	}
	if v.IsSet("page_size") {
		cfg.PageSize = v.GetInt("page_size")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
