// Package config loads optional CLI settings from a YAML file. Connection
// settings for Postgres, Qdrant, Ollama, and the LLM stay in environment
// variables; this file only covers log mode and data file locations.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/moviemania/movie-mania-backend/internal/platform/envutil"
)

type DataConfig struct {
	MoviesList string `yaml:"movies_list"`
	ActorsList string `yaml:"actors_list"`
	Dataset    string `yaml:"dataset"`
}

type Config struct {
	LogMode string     `yaml:"log_mode"`
	Data    DataConfig `yaml:"data"`
}

func defaults() Config {
	return Config{
		LogMode: envutil.Str("LOG_MODE", "development"),
		Data: DataConfig{
			MoviesList: "data/movies_list.json",
			ActorsList: "data/actors_list.json",
			Dataset:    "data/movies_dataset.json",
		},
	}
}

// Load reads the config file at path (default movie-mania.yaml, overridable
// via MOVIE_MANIA_CONFIG). A missing file returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		path = envutil.Str("MOVIE_MANIA_CONFIG", "movie-mania.yaml")
	}

	cfg := defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}

	d := defaults()
	if cfg.LogMode == "" {
		cfg.LogMode = d.LogMode
	}
	if cfg.Data.MoviesList == "" {
		cfg.Data.MoviesList = d.Data.MoviesList
	}
	if cfg.Data.ActorsList == "" {
		cfg.Data.ActorsList = d.Data.ActorsList
	}
	if cfg.Data.Dataset == "" {
		cfg.Data.Dataset = d.Data.Dataset
	}
	return cfg, nil
}
