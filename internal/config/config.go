package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Game struct {
		QuestionTime  string `yaml:"questionTime"`
		FeedbackDelay string `yaml:"feedbackDelay"`
		SessionTTL    string `yaml:"sessionTTL"`
		SweepSchedule string `yaml:"sweepSchedule"`
	} `yaml:"game"`
	Bank struct {
		ID   string `yaml:"id"`
		File string `yaml:"file"`
		TTL  string `yaml:"ttl"`
	} `yaml:"bank"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	NATS struct {
		URL     string `yaml:"url"`
		Subject string `yaml:"subject"`
	} `yaml:"nats"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
}

// Load reads YAML config from path. A missing file yields the defaults so the
// game runs with no configuration at all. LOG_LEVEL overrides log.level.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Game.QuestionTime = "30s"
	cfg.Game.FeedbackDelay = "1500ms"
	cfg.Game.SessionTTL = "30m"
	cfg.Game.SweepSchedule = "@every 1m"
	cfg.Bank.ID = "coding"
	cfg.Bank.TTL = "10m"
	cfg.Log.Level = "info"
	return cfg
}

// LoadDotEnv loads a .env file into the environment if present.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
