package configuration

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"livestream-backend/infrastructure/logger"
)

// Config is loaded once at startup and passed into constructors. Nothing in
// the engines reads configuration ambiently.
type Config struct {
	App      App      `json:"app"`
	Database Database `json:"database"`
	Storage  Storage  `json:"storage"`
	Redis    Redis    `json:"redis"`
	CDN      CDN      `json:"cdn"`
}

type App struct {
	Port          int           `json:"port"`
	SecretKey     string        `json:"secretKey"`
	WorkerKey     string        `json:"workerKey"`
	TokenTTL      time.Duration `json:"tokenTTL"`
	UploadTimeout time.Duration `json:"uploadTimeout"`
	// MaxUploadBytes caps the multipart body; the original allowed 200 MiB.
	MaxUploadBytes int64 `json:"maxUploadBytes"`
}

type Database struct {
	Mongo Mongo `json:"mongo"`
}

type Mongo struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

type Storage struct {
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"accessKey"`
	SecretKey string `json:"secretKey"`
	Bucket    string `json:"bucket"`
	UseSSL    bool   `json:"useSSL"`
}

type Redis struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	// CatalogTTL bounds staleness of cached catalog pages.
	CatalogTTL time.Duration `json:"catalogTTL"`
}

type CDN struct {
	// Domain is the public delivery domain composed with the processed
	// stream key. A trailing slash is stripped exactly once at resolve time.
	Domain string `json:"domain"`
}

// Load reads config(.ENV).json from the usual lookup paths, then applies
// environment overrides, then fills defaults.
func Load() Config {
	name := "config"
	if env := os.Getenv("ENV"); env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}

	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("../")
	v.AddConfigPath("../../")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found; relying on environment")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}

	applyEnvOverrides(&c)
	applyDefaults(&c)

	if c.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; authentication will fail. Provide SECRET_KEY via environment.")
	}
	return c
}

func applyEnvOverrides(c *Config) {
	if s := os.Getenv("SECRET_KEY"); s != "" {
		c.App.SecretKey = s
	}
	if s := os.Getenv("WORKER_KEY"); s != "" {
		c.App.WorkerKey = s
	}
	if s := os.Getenv("APP_PORT"); s != "" {
		if p, err := strconv.Atoi(s); err == nil {
			c.App.Port = p
		}
	} else if s := os.Getenv("PORT"); s != "" {
		if p, err := strconv.Atoi(s); err == nil {
			c.App.Port = p
		}
	}
	if s := os.Getenv("UPLOAD_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			c.App.UploadTimeout = d
		}
	}

	if s := os.Getenv("MONGO_URI"); s != "" {
		c.Database.Mongo.URI = s
	}
	if s := os.Getenv("MONGO_DB_NAME"); s != "" {
		c.Database.Mongo.Name = s
	}

	if s := os.Getenv("STORAGE_ENDPOINT"); s != "" {
		c.Storage.Endpoint = s
	}
	if s := os.Getenv("STORAGE_ACCESS_KEY"); s != "" {
		c.Storage.AccessKey = s
	}
	if s := os.Getenv("STORAGE_SECRET_KEY"); s != "" {
		c.Storage.SecretKey = s
	}
	if s := os.Getenv("STORAGE_BUCKET"); s != "" {
		c.Storage.Bucket = s
	}
	if s := os.Getenv("STORAGE_USE_SSL"); s != "" {
		c.Storage.UseSSL = s == "true" || s == "1"
	}

	if s := os.Getenv("REDIS_HOST"); s != "" {
		c.Redis.Host = s
	}
	if s := os.Getenv("REDIS_PORT"); s != "" {
		c.Redis.Port = s
	}
	if s := os.Getenv("REDIS_USERNAME"); s != "" {
		c.Redis.Username = s
	}
	if s := os.Getenv("REDIS_PASSWORD"); s != "" {
		c.Redis.Password = s
	}

	if s := os.Getenv("CDN_DOMAIN"); s != "" {
		c.CDN.Domain = s
	}
}

func applyDefaults(c *Config) {
	if c.App.Port == 0 {
		c.App.Port = 5000
	}
	if c.App.TokenTTL == 0 {
		c.App.TokenTTL = 7 * 24 * time.Hour
	}
	if c.App.UploadTimeout == 0 {
		c.App.UploadTimeout = 2 * time.Minute
	}
	if c.App.MaxUploadBytes == 0 {
		c.App.MaxUploadBytes = 200 << 20
	}
	if c.Database.Mongo.URI == "" {
		c.Database.Mongo.URI = "mongodb://localhost:27017"
	}
	if c.Database.Mongo.Name == "" {
		c.Database.Mongo.Name = "livestream"
	}
	if c.Storage.Bucket == "" {
		c.Storage.Bucket = "videos"
	}
	if c.Redis.Port == "" {
		c.Redis.Port = "6379"
	}
	if c.Redis.CatalogTTL == 0 {
		c.Redis.CatalogTTL = 30 * time.Second
	}
}
