package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"Server"`
	Backend BackendConfig `mapstructure:"Backend"`
}

type ServerConfig struct {
	Port    string `mapstructure:"Port"`
	LogMode string `mapstructure:"LogMode"`
}

// BackendConfig описывает подключение к бэкенду мониторинга, который хранит
// ассоциации архивов и выполняет трансляцию sourcemap.
type BackendConfig struct {
	BaseURL string        `mapstructure:"BaseURL"`
	Timeout time.Duration `mapstructure:"Timeout"`
}

func NewConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	// Привязываем переменные окружения
	v.BindEnv("Server.Port", "HTTP_PORT")
	v.BindEnv("Server.LogMode", "LOG_MODE")
	v.BindEnv("Backend.BaseURL", "BACKEND_BASE_URL")
	v.BindEnv("Backend.Timeout", "BACKEND_TIMEOUT")

	// Читаем конфигурацию из файла
	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Warning: using only environment variables: %v\n", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Проверяем переменные окружения напрямую если конфигурация неполная
	if cfg.Server.Port == "" {
		cfg.Server.Port = v.GetString("HTTP_PORT")
	}
	if cfg.Server.LogMode == "" {
		cfg.Server.LogMode = v.GetString("LOG_MODE")
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = v.GetString("BACKEND_BASE_URL")
	}

	// Установка значений по умолчанию
	if cfg.Server.Port == "" {
		cfg.Server.Port = "2650"
	}
	if cfg.Server.LogMode == "" {
		cfg.Server.LogMode = "dev"
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = 30 * time.Second
	}

	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("backend configuration is incomplete: BaseURL is required")
	}

	return &cfg, nil
}
