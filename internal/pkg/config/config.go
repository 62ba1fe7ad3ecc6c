package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Lighting *LightingConfig
	Mqtt     *MqttConfig
	Database *DatabaseConfig
	Server   *ServerConfig
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// LightingConfig points the gateway at the lighting backend. SerialTimeout is
// forwarded to the backend as its per-request serial bus timeout in seconds.
type LightingConfig struct {
	BaseURL       string        `env:"LIGHTING_API_URL" envDefault:"http://127.0.0.1:8000"`
	HTTPTimeout   time.Duration `env:"LIGHTING_HTTP_TIMEOUT" envDefault:"10s"`
	SerialTimeout float64       `env:"LIGHTING_SERIAL_TIMEOUT" envDefault:"0.5"`
}

type MqttConfig struct {
	Host         string `env:"MQTT_HOST"`
	Username     string `env:"MQTT_USERNAME"`
	Password     string `env:"MQTT_PASSWORD"`
	Manufacturer string `env:"DEVICE_MANUFACTURER" envDefault:"Agrolux"`
	Model        string `env:"DEVICE_MODEL" envDefault:"CCO transmitter"`
}

type DatabaseConfig struct {
	DSN              string `env:"DATABASE_URL"`
	MigrationsFolder string `env:"MIGRATIONS_FOLDER" envDefault:"migrations"`
	RetentionDays    int    `env:"RETENTION_DAYS" envDefault:"90"`
	CleanupSchedule  string `env:"CLEANUP_SCHEDULE" envDefault:"17 3 * * *"`
}

type ServerConfig struct {
	ListenAddress string `env:"LISTEN_ADDRESS" envDefault:":8089"`
	PasswordHash  string `env:"PANEL_PASSWORD_HASH"`
	JwtSecret     string `env:"JWT_SECRET"`
	PollSchedule  string `env:"POLL_SCHEDULE" envDefault:"@every 1m"`
}

// New builds a Config from the environment. CLI flags may override individual
// fields afterwards.
func New() (*Config, error) {
	cfg := &Config{
		Lighting: &LightingConfig{},
		Mqtt:     &MqttConfig{},
		Database: &DatabaseConfig{},
		Server:   &ServerConfig{},
	}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
