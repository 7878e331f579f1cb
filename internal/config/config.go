package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      App
	Postgres Postgres
	Redis    Redis
	Bot      Bot
	Monitor  Monitor
	Fetch    Fetch
	Sources  Sources
}

type App struct {
	Name           string `env:"APP_NAME" envDefault:"car-monitor"`
	Version        string `env:"APP_VERSION" envDefault:"dev"`
	ProbeAddress   string `env:"PROBE_ADDRESS" envDefault:":8091"`
	MetricsAddress string `env:"METRICS_ADDRESS" envDefault:":8092"`
}

type Bot struct {
	Token string `env:"BOT_TOKEN,required" json:"-"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return config, nil
}
