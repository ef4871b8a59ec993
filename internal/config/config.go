package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Redis      Redis  `yaml:"redis"`
	Game       Game   `yaml:"game"`
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Game struct {
	NarrationDelay   time.Duration `yaml:"narration-delay" env-default:"800ms"`
	TickInterval     time.Duration `yaml:"tick-interval" env-default:"50ms"`
	ArchetypesPath   string        `yaml:"archetypes-path" env-default:""`
	PlayerArchetypes string        `yaml:"player-archetypes" env-default:"knight,mage"`
	Opponent         string        `yaml:"opponent" env-default:"dragon"`
	MessageRetention int64         `yaml:"message-retention" env-default:"200"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	if that.Host == "" || that.Port == "" {
		return ""
	}

	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// Archetypes splits the configured player archetypes; a single tag is used for both seats.
func (that *Game) Archetypes() [2]string {
	parts := strings.Split(that.PlayerArchetypes, ",")

	first := strings.TrimSpace(parts[0])
	second := first
	if len(parts) > 1 {
		second = strings.TrimSpace(parts[1])
	}

	return [2]string{first, second}
}
