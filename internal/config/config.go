package config

import (
	"flag"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env  string     `yaml:"env" env:"APP_ENV" env-default:"local"`
	HTTP HTTPConfig `yaml:"http"`
	CORS CORSConfig `yaml:"cors"`
}

type HTTPConfig struct {
	Address string `yaml:"address" env:"HTTP_ADDRESS" env-default:""`
}

type CORSConfig struct {
	// AllowedOrigins is the cross-origin allow-list, also settable as a
	// comma-separated ALLOWED_ORIGINS environment variable.
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-separator:","`
}

func MustLoad() *Config {
	return MustLoadPath(fetchConfigPath())
}

func MustLoadPath(configPath string) *Config {
	var cfg Config

	// Missing config file is fine: the whole config is settable from the
	// environment.
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			panic("cannot read config from environment: " + err.Error())
		}
		cfg.setDefaults()
		return &cfg
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	cfg.setDefaults()

	return &cfg
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	if res == "" {
		res = "config/local.yaml"
	}

	return res
}

func (c *Config) setDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	}
}
