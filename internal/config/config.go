// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек обоих сервисов.
type Config struct {
	Env                     string        `yaml:"env"`
	StorageConnectionString string        `yaml:"storage_connection_string"`
	SeedData                bool          `yaml:"seed_data"`
	RabbitConnectionString  string        `yaml:"rabbit_connection_string"`
	RabbitRetries           int           `yaml:"rabbit_retries"`
	RabbitRetryDelay        time.Duration `yaml:"rabbit_retry_delay"`
	AccountsServiceBaseURL  string        `yaml:"accounts_service_base_url"`
	RedisConnection         `yaml:"redis_connection"`
	AccountsHTTP            HTTPServer `yaml:"accounts_http_server"`
	AuthHTTP                HTTPServer `yaml:"auth_http_server"`
	JWTToken                `yaml:"jwttoken"`
}

// HTTPServer структура для настройки HTTP-сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// JWTToken структура для работы с jwt-токеном. Секрет общий для всех
// сервисов: auth-service подписывает им токены, остальные проверяют.
// Ротация секрета делает все ранее выданные токены недействительными.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
}

// MustLoad функция для загрузки конфига, путь берётся из переменной
// окружения CONFIG_PATH.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

// String печатает конфигурацию без значения секретного ключа.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"SeedData: %t\n"+
			"AccountsServiceBaseURL: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"AccountsHTTP:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"AuthHTTP:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n",
		c.Env,
		c.StorageConnectionString,
		c.SeedData,
		c.AccountsServiceBaseURL,
		c.AddressRedis,
		c.DB,
		c.AccountsHTTP.AddressHTTP,
		c.AccountsHTTP.TimeoutHTTP,
		c.AccountsHTTP.IdleTimeout,
		c.AuthHTTP.AddressHTTP,
		c.AuthHTTP.TimeoutHTTP,
		c.AuthHTTP.IdleTimeout,
		c.TokenTTL,
	)
}
