package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/annel0/eventpump/internal/logging"
	"github.com/annel0/eventpump/internal/native"
)

// EnvConfig переменная с путём к YAML-файлу конфигурации.
const EnvConfig = "EVENTPUMP_CONFIG"

// Config корневая структура конфигурации.
type Config struct {
	Queue   QueueConfig   `yaml:"queue"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Replay  ReplayConfig  `yaml:"replay"`
}

type QueueConfig struct {
	Capacity      int `yaml:"capacity"`
	WaitTimeoutMS int `yaml:"wait_timeout_ms"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

type MetricsConfig struct {
	Listen         string `yaml:"listen"`
	RefreshSeconds int    `yaml:"refresh_seconds"`
}

type ReplayConfig struct {
	Dir   string `yaml:"dir"`
	Paced bool   `yaml:"paced"`
}

// GetCapacity ёмкость очереди: config -> EVENTPUMP_QUEUE_CAPACITY -> по умолчанию.
func (q *QueueConfig) GetCapacity() int {
	return getIntWithEnvFallback(q.Capacity, "EVENTPUMP_QUEUE_CAPACITY", native.DefaultCapacity)
}

// GetWaitTimeout таймаут одного шага ожидания.
func (q *QueueConfig) GetWaitTimeout() time.Duration {
	ms := getIntWithEnvFallback(q.WaitTimeoutMS, "EVENTPUMP_WAIT_TIMEOUT_MS", 100)
	return time.Duration(ms) * time.Millisecond
}

// GetLevel минимальный уровень консольного лога.
func (l *LoggingConfig) GetLevel() logging.LogLevel {
	s := getStringWithEnvFallback(l.Level, "EVENTPUMP_LOG_LEVEL", "INFO")
	level, err := logging.ParseLevel(s)
	if err != nil {
		return logging.INFO
	}
	return level
}

func (l *LoggingConfig) GetDir() string {
	return getStringWithEnvFallback(l.Dir, "EVENTPUMP_LOG_DIR", "logs")
}

// GetListen адрес эндпоинта метрик; пустая строка выключает HTTP.
func (m *MetricsConfig) GetListen() string {
	return getStringWithEnvFallback(m.Listen, "EVENTPUMP_METRICS_LISTEN", "")
}

func (m *MetricsConfig) GetRefresh() time.Duration {
	s := getIntWithEnvFallback(m.RefreshSeconds, "EVENTPUMP_METRICS_REFRESH", 1)
	return time.Duration(s) * time.Second
}

// GetDir каталог записей; пустая строка выключает запись.
func (r *ReplayConfig) GetDir() string {
	return getStringWithEnvFallback(r.Dir, "EVENTPUMP_REPLAY_DIR", "")
}

// getIntWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getIntWithEnvFallback(configVal int, envVar string, defaultVal int) int {
	if configVal > 0 {
		return configVal
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}

func getStringWithEnvFallback(configVal, envVar, defaultVal string) string {
	if configVal != "" {
		return configVal
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		return envVal
	}
	return defaultVal
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV EVENTPUMP_CONFIG; если и он
// не задан, возвращает пустой конфиг, геттеры которого дают значения по умолчанию.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
		if path == "" {
			return &Config{}, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &cfg, nil
}
