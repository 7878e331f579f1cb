package config

import "time"

type Monitor struct {
	Interval      time.Duration `env:"MONITOR_INTERVAL" envDefault:"15m"`
	InitialDelay  time.Duration `env:"MONITOR_INITIAL_DELAY" envDefault:"5s"`
	NotifyPause   time.Duration `env:"MONITOR_NOTIFY_PAUSE" envDefault:"10s"`
	ExchangeRate  float64       `env:"MONITOR_EXCHANGE_RATE" envDefault:"3.3"`
	ResultCap     int           `env:"MONITOR_RESULT_CAP" envDefault:"50"`
	DeepResultCap int           `env:"MONITOR_DEEP_RESULT_CAP" envDefault:"200"`
	DeepScanAge   time.Duration `env:"MONITOR_DEEP_SCAN_AGE" envDefault:"168h"`
}
