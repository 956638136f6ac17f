package main

import (
	"chat-relay/errors"
	"fmt"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

// Port is fixed; clients connect to ws://host:3000.
const Port = 3000

const (
	MemoryBackend = "memory"
	BadgerBackend = "badger"
)

type Config struct {
	LogLevel             string        `env:"LOG_LEVEL,default=INFO" validate:"required"`
	HistoryBackend       string        `env:"HISTORY_BACKEND,default=memory" validate:"oneof=memory badger"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=30s" validate:"gt=0"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=200ms" validate:"gt=0"`
	CensoredWords        string        `env:"CENSORED_WORDS"`
	CharacterReplacement string        `env:"CHARACTER_REPLACEMENT,default=*"`
}

// LoadConfig reads an optional .env file then the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := validator.New().Struct(config); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// Words splits CENSORED_WORDS on commas, dropping blanks.
func (c Config) Words() []string {
	words := lo.Map(strings.Split(c.CensoredWords, ","), func(w string, _ int) string {
		return strings.TrimSpace(w)
	})
	return lo.Compact(words)
}

func (c Config) ReplacementRune() (rune, error) {
	r := []rune(c.CharacterReplacement)
	if len(r) != 1 {
		return 0, fmt.Errorf("%w: CHARACTER_REPLACEMENT must be a single character, got %q",
			errors.ErrInvalidCharacter, c.CharacterReplacement)
	}
	return r[0], nil
}
