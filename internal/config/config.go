package config

import "github.com/caarlos0/env/v10"

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	Port     string `env:"GUILD_PORT" envDefault:"8080"`
	BaseURL  string `env:"GUILD_BASE_URL" envDefault:"http://localhost:8080"`
	DBPath   string `env:"GUILD_DB_PATH" envDefault:"guild.db"`
	LogLevel string `env:"GUILD_LOG_LEVEL" envDefault:"info"`

	RedisAddr     string `env:"GUILD_REDIS_ADDR"`
	RedisPassword string `env:"GUILD_REDIS_PASSWORD"`
	RedisDB       int    `env:"GUILD_REDIS_DB" envDefault:"0"`

	PostmarkToken string `env:"GUILD_POSTMARK_TOKEN"`
	EmailFrom     string `env:"GUILD_EMAIL_FROM" envDefault:"hello@absurd.industries"`

	S3Endpoint  string `env:"GUILD_S3_ENDPOINT"`
	S3Bucket    string `env:"GUILD_S3_BUCKET" envDefault:"absurd-guild-uploads"`
	S3Region    string `env:"GUILD_S3_REGION" envDefault:"auto"`
	S3AccessKey string `env:"GUILD_S3_ACCESS_KEY"`
	S3SecretKey string `env:"GUILD_S3_SECRET_KEY"`
	S3PublicURL string `env:"GUILD_S3_PUBLIC_URL"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
