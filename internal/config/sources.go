package config

type Sources struct {
	AvByEnabled    bool `env:"SOURCE_AVBY_ENABLED" envDefault:"true"`
	KufarEnabled   bool `env:"SOURCE_KUFAR_ENABLED" envDefault:"true"`
	OnlinerEnabled bool `env:"SOURCE_ONLINER_ENABLED" envDefault:"true"`
	AbwEnabled     bool `env:"SOURCE_ABW_ENABLED" envDefault:"true"`
}
