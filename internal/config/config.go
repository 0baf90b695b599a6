package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Listen struct {
	BindIp string `yaml:"bind_ip" env:"BIND_IP" env-default:"0.0.0.0"`
	Port   string `yaml:"port" env:"PORT" env-default:"8080"`
	// ApiToken protects /v1; the API is not mounted when empty.
	ApiToken string `yaml:"api_token" env:"API_TOKEN"`
}

type Telegram struct {
	BotToken   string `yaml:"bot_token" env:"BOT_TOKEN"`
	OperatorId int64  `yaml:"ceo_id" env:"CEO_ID"`
	// DigestInterval batches error notifications to the operator; 0 sends each at once.
	DigestInterval time.Duration `yaml:"digest_interval" env:"NOTIFY_DIGEST_INTERVAL" env-default:"1m"`
}

type Store struct {
	Uri       string `yaml:"uri" env:"REDIRECT_DB_URI"`
	UseMemory bool   `yaml:"use_memory" env:"USE_MEMORY_DB" env-default:"false"`
	RedisUrl  string `yaml:"redis_url" env:"REDIS_URL"`
}

type Catalog struct {
	ApiKey string `yaml:"api_key" env:"TMDB_API_KEY"`
}

type Flow struct {
	SetupPolicy      string        `yaml:"setup_policy" env:"SETUP_POLICY" env-default:"approval"`
	SessionTTL       time.Duration `yaml:"session_ttl" env:"SETUP_SESSION_TTL" env-default:"30m"`
	Animation        string        `yaml:"animation" env:"REDIRECT_ANIMATION" env-default:"rotating"`
	InviteRatePerSec float64       `yaml:"invite_rate_per_sec" env:"INVITE_RATE_PER_SEC" env-default:"20"`
}

type Config struct {
	Env      string   `yaml:"env" env:"ENV" env-default:"prod"`
	LogLevel string   `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogPath  string   `yaml:"log_path" env:"LOG_PATH"`
	Telegram Telegram `yaml:"telegram"`
	Store    Store    `yaml:"store"`
	Catalog  Catalog  `yaml:"catalog"`
	Flow     Flow     `yaml:"flow"`
	Listen   Listen   `yaml:"listen"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance, err = Load(path)
		if err != nil {
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}

// Load reads .env (if present) into the environment, then the YAML file at
// path when it exists, otherwise the environment alone, and validates the result.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	conf := &Config{}
	var err error
	if _, statErr := os.Stat(path); path != "" && statErr == nil {
		err = cleanenv.ReadConfig(path, conf)
	} else {
		err = cleanenv.ReadEnv(conf)
	}
	if err != nil {
		desc, _ := cleanenv.GetDescription(conf, nil)
		return nil, fmt.Errorf("config: %s; %s", err, desc)
	}
	if err = conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate reports every missing required setting at once.
func (c *Config) Validate() error {
	var missing []string
	if c.Telegram.BotToken == "" {
		missing = append(missing, "BOT_TOKEN")
	}
	if c.Store.Uri == "" && !c.Store.UseMemory {
		missing = append(missing, "REDIRECT_DB_URI")
	}
	if c.Telegram.OperatorId == 0 {
		missing = append(missing, "CEO_ID")
	}
	if c.Catalog.ApiKey == "" {
		missing = append(missing, "TMDB_API_KEY")
	}
	if len(missing) > 0 {
		return errors.New("missing environment variables: " + strings.Join(missing, ", "))
	}
	return nil
}
