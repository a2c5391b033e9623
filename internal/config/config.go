package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings read from the environment.
type Config struct {
	OpenAIKey     string `env:"OPENAI_API_KEY"`
	StoryModel    string `env:"VEINS_STORY_MODEL"    envDefault:"gpt-5-mini"`
	ImageModel    string `env:"VEINS_IMAGE_MODEL"    envDefault:"dall-e-3"`
	SpeechModel   string `env:"VEINS_SPEECH_MODEL"   envDefault:"tts-1"`
	Voice         string `env:"VEINS_VOICE"          envDefault:"onyx"`
	MaxTokens     int    `env:"VEINS_MAX_TOKENS"     envDefault:"1600"`
	DBPath        string `env:"VEINS_DB_PATH"        envDefault:"./veins.db"`
	LogPath       string `env:"VEINS_LOG_PATH"       envDefault:"./veins.log"`
	CatalogPath   string `env:"VEINS_CATALOG"`
	Debug         bool   `env:"DEBUG"`
	SpeechEnabled bool   `env:"VEINS_SPEECH_ENABLED"`
}

var ErrMissingAPIKey = errors.New("please set OPENAI_API_KEY environment variable")

// Load parses Config from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// LoadFrom parses Config from the given variables instead of the process
// environment.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// RequireAPIKey reports whether the generative services can be reached.
func (c Config) RequireAPIKey() error {
	if c.OpenAIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
