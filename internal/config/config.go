// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек сервиса.
type Config struct {
	Env                     string        `yaml:"env" env-default:"local"`
	StorageConnectionString string        `yaml:"storage_connection_string"`
	RabbitConnection        string        `yaml:"rabbit_connection"`
	RabbitMaxRetries        int           `yaml:"rabbit_max_retries" env-default:"5"`
	RabbitRetryDelay        time.Duration `yaml:"rabbit_retry_delay" env-default:"3s"`
	MigrationsPath          string        `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Naver                   `yaml:"naver"`
	Pages                   `yaml:"pages"`
	AdminSeed               `yaml:"admin_seed"`
	DemoAccounts            []DemoAccount `yaml:"demo_accounts"`
}

// AdminSeed учетная запись администратора, создаваемая при старте,
// если её ещё нет в базе. Пароль хранится только в виде bcrypt-хэша.
type AdminSeed struct {
	Username    string `yaml:"username" env-default:"admin"`
	Password    string `yaml:"password" env:"ADMIN_SEED_PASSWORD" env-default:"admin"`
	DisplayName string `yaml:"display_name" env-default:"관리자"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"localhost:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
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

// JWTToken структура для работы с jwt-токеном.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Naver настройки внешнего OAuth-провайдера Naver.
type Naver struct {
	ClientID     string `yaml:"client_id" env:"NAVER_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"NAVER_CLIENT_SECRET"`
	RedirectURL  string `yaml:"redirect_url"`
}

// Pages адреса страниц фронтенда, на которые сервис делает редиректы.
type Pages struct {
	LoginPage      string `yaml:"login_page" env-default:"/login"`
	AdminLoginPage string `yaml:"admin_login_page" env-default:"/admin/login"`
	LoginSuccess   string `yaml:"login_success" env-default:"/community"`
}

// DemoAccount запись из allow-list тестовых аккаунтов.
// Вход по такой записи возможен только если пароль совпадает с username.
type DemoAccount struct {
	Username    string `yaml:"username"`
	DisplayName string `yaml:"display_name"`
	Role        string `yaml:"role" env-default:"user"`
	ExamPassed  bool   `yaml:"exam_passed"`
}

// MustLoad функция для загрузки конфига, падает при отсутствии CONFIG_PATH.
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
