package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath — путь к конфигу, если CONFIG_PATH не задан
const DefaultPath = "config/config.yaml"

// Драйверы хранилища
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config определяет структуру конфигурации всего приложения целиком
// секции postgres и sqlite проверяются только для выбранного драйвера
type Config struct {
	HTTPServer `yaml:"http_server"`
	Storage    `yaml:"storage"`
	Postgres   `yaml:"postgres" validate:"-"`
	SQLite     `yaml:"sqlite" validate:"-"`
	Kafka      `yaml:"kafka" validate:"-"`
	Logger     `yaml:"logger"`
	UI         `yaml:"ui"`
}

// HTTPServer содержит конфигурацию для HTTP-сервера
// страница сама ходит в /birds того же сервера, поэтому write_timeout
// должен быть больше таймаута клиента страницы
type HTTPServer struct {
	Port         string        `yaml:"port" validate:"required"`
	ReadTimeout  time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gt=0"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" validate:"gt=0"`
}

// Storage выбирает, где хранятся птицы
type Storage struct {
	Driver string `yaml:"driver" validate:"required,oneof=postgres sqlite"`
}

// Postgres содержит конфигурацию для подключения к базе данных
type Postgres struct {
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Host     string `yaml:"host" validate:"required"`
	Port     string `yaml:"port" validate:"required"`
	DBName   string `yaml:"db_name" validate:"required"`
	SSLMode  string `yaml:"ssl_mode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
}

// SQLite содержит путь к файлу встроенной базы
type SQLite struct {
	Path string `yaml:"path" validate:"required"`
}

// Kafka содержит конфигурацию для подключения к кафке
type Kafka struct {
	Enabled     bool     `yaml:"enabled"`
	Brokers     []string `yaml:"brokers" validate:"required,min=1,dive,required"`
	ImportTopic string   `yaml:"import_topic" validate:"required"`
	EventsTopic string   `yaml:"events_topic" validate:"required"`
	GroupID     string   `yaml:"group_id" validate:"required"`
}

// Logger содержит конфигурацию для логгера
type Logger struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// UI содержит настройки серверной страницы с птицами
type UI struct {
	// адрес REST-ресурса /birds, с которым говорит страница
	APIBaseURL      string        `yaml:"api_base_url" validate:"required,url"`
	StaticDir       string        `yaml:"static_dir"`
	SessionTTL      time.Duration `yaml:"session_ttl" validate:"gt=0"`
	MaxSessions     int           `yaml:"max_sessions" validate:"gt=0"`
	InitialLoadWait time.Duration `yaml:"initial_load_wait" validate:"gte=0"`
}

var validate = validator.New()

// Validate проверяет конфигурацию по тегам validate
func (c *Config) Validate() error {
	const op = "config.Config.Validate"

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch c.Storage.Driver {
	case DriverPostgres:
		if err := validate.Struct(c.Postgres); err != nil {
			return fmt.Errorf("%s: postgres: %w", op, err)
		}
	case DriverSQLite:
		if err := validate.Struct(c.SQLite); err != nil {
			return fmt.Errorf("%s: sqlite: %w", op, err)
		}
	}

	if c.Kafka.Enabled {
		if err := validate.Struct(c.Kafka); err != nil {
			return fmt.Errorf("%s: kafka: %w", op, err)
		}
	}

	return nil
}

// Path возвращает путь к конфигу из CONFIG_PATH или путь по умолчанию
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}

// Load читает, разбирает и проверяет конфигурацию
func Load(configPath string) (*Config, error) {
	const op = "config.Load"

	if configPath == "" {
		return nil, fmt.Errorf("%s: CONFIG_PATH is not set", op)
	}

	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read config file: %w", op, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to unmarshal config: %w", op, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MustLoad загружает конфигурацию из файла по указанному пути
// в случае ошибки программа завершается с фатальной ошибкой
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func defaults() *Config {
	return &Config{
		HTTPServer: HTTPServer{
			Port:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Storage:    Storage{Driver: DriverSQLite},
		SQLite:     SQLite{Path: "data/birds.db"},
		Logger:     Logger{Level: "info", Format: "text"},
		UI: UI{
			APIBaseURL:      "http://localhost:8080",
			StaticDir:       "./web/",
			SessionTTL:      30 * time.Minute,
			MaxSessions:     1024,
			InitialLoadWait: 2 * time.Second,
		},
	}
}
