package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env             string            `yaml:"env" env:"ENV" env-default:"local"`
	DSN             string            `yaml:"dsn" env:"DSN" env-required:"true"`
	MigrateOnStart  bool              `yaml:"migrate_on_start" env:"MIGRATE_ON_START" env-default:"true"`
	SchemaCacheTTL  time.Duration     `yaml:"schema_cache_ttl" env-default:"1m"`
	CleanupInterval time.Duration     `yaml:"cleanup_interval" env-default:"1h"`
	HTTP            HTTPConfig        `yaml:"http"`
	Redis           RedisConf         `yaml:"redis"`
	FileStorage     FileStorageConfig `yaml:"file_storage"`
	Pagination      PaginationConfig  `yaml:"pagination"`
	Auth            AuthConfig        `yaml:"auth"`
}

type HTTPConfig struct {
	Host    string        `yaml:"host" env:"HTTP_HOST"`
	Port    string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

type RedisConf struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

type FileStorageConfig struct {
	BaseDir string `yaml:"base_dir" env-default:"./uploads"`
	BaseURL string `yaml:"base_url" env-default:"/uploads"`
	MaxSize int64  `yaml:"max_size" env-default:"5242880"`
}

type PaginationConfig struct {
	DefaultSize int `yaml:"default_size" env-default:"20"`
	MaxSize     int `yaml:"max_size" env-default:"100"`
}

type AuthConfig struct {
	Secret        string        `yaml:"secret" env:"AUTH_SECRET" env-required:"true"`
	AccessTTL     time.Duration `yaml:"access_ttl" env-default:"1h"`
	LoginAttempts int           `yaml:"login_attempts" env-default:"5"`
	LoginWindow   time.Duration `yaml:"login_window" env-default:"15m"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

// fetchConfigPath reads --config="path/to/config.yaml", then CONFIG_PATH.
func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
