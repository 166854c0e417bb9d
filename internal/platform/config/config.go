package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	LogSQL   bool   `yaml:"log_sql"`
}

type Certs struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

type ServerConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

type AppConfig struct {
	// 出席日の判定に使うタイムゾーン（"Local" ならサーバー設定）
	Timezone string `yaml:"timezone"`
}

type AdminSeed struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type Config struct {
	Version     string         `yaml:"version"`
	Mode        string         `yaml:"mode"`
	DB          DatabaseConfig `yaml:"database"`
	Certificate Certs          `yaml:"certificate"`
	Server      ServerConfig   `yaml:"server"`
	Auth        AuthConfig     `yaml:"auth"`
	App         AppConfig      `yaml:"app"`
	Admin       AdminSeed      `yaml:"admin"`

	loc *time.Location
}

// Load は YAML を読み、.env と環境変数で上書きしてから検証する。
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] .env not found, using environment variables")
	}

	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(buf)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse は YAML をデフォルト値の上に読み込む（環境変数・検証なし）。
func Parse(buf []byte) (*Config, error) {
	cfg := defaults()
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Mode: "dev",
		DB: DatabaseConfig{
			Host:   "localhost",
			Port:   3306,
			DBName: "absensi_magang",
		},
		Server: ServerConfig{
			Port:        "8080",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Auth: AuthConfig{TokenTTLHours: 24},
		App:  AppConfig{Timezone: "Local"},
		Admin: AdminSeed{
			Username: "admin",
		},
	}
}

func (c *Config) applyEnv() {
	c.Mode = getEnv("MODE", c.Mode)
	c.DB.Host = getEnv("DB_HOST", c.DB.Host)
	c.DB.Port = getEnvAsInt("DB_PORT", c.DB.Port)
	c.DB.Username = getEnv("DB_USER", c.DB.Username)
	c.DB.Password = getEnv("DB_PASSWORD", c.DB.Password)
	c.DB.DBName = getEnv("DB_NAME", c.DB.DBName)
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.App.Timezone = getEnv("APP_TIMEZONE", c.App.Timezone)
	c.Admin.Password = getEnv("ADMIN_PASSWORD", c.Admin.Password)
}

func (c *Config) validate() error {
	if c.Mode != "dev" && c.Mode != "release" {
		return fmt.Errorf("mode must be dev or release, got %q", c.Mode)
	}
	if c.Auth.JWTSecret == "" {
		if c.Mode == "release" {
			return errors.New("auth.jwt_secret is required in release mode")
		}
		log.Println("[WARN] auth.jwt_secret is empty, using development secret")
		c.Auth.JWTSecret = "dev-secret-change-me"
	}
	if c.Auth.TokenTTLHours <= 0 {
		c.Auth.TokenTTLHours = 24
	}
	loc, err := loadLocation(c.App.Timezone)
	if err != nil {
		return fmt.Errorf("app.timezone: %w", err)
	}
	c.loc = loc
	return nil
}

// Location は「今日」を決めるタイムゾーン。
func (c *Config) Location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLHours) * time.Hour
}

func (c *Config) TLSEnabled() bool {
	return c.Certificate.Cert != "" && c.Certificate.Key != ""
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] invalid integer for %s, fallback to %d", key, def)
		return def
	}
	return n
}
