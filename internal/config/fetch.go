package config

import "time"

type Fetch struct {
	Timeout       time.Duration `env:"FETCH_TIMEOUT" envDefault:"30s"`
	Delay         time.Duration `env:"FETCH_DELAY" envDefault:"1s"`
	Retries       int           `env:"FETCH_RETRIES" envDefault:"3"`
	BackoffBase   time.Duration `env:"FETCH_BACKOFF_BASE" envDefault:"2s"`
	LogBodyMaxLen int           `env:"FETCH_LOG_BODY_MAX_LEN" envDefault:"2048"`
}
