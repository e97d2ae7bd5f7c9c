package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the server.
type Config struct {
	AppPort       string
	StoreDriver   string
	DataFile      string
	SQLiteFile    string
	DatabaseDSN   string
	RabbitMQURL   string
	RabbitMQQueue string
	HashPasswords bool
	BcryptCost    int
	LogLevel      string
	LogFormat     string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":4000")
	v.SetDefault("STORE_DRIVER", "json")
	v.SetDefault("DATA_FILE", "data/db.json")
	v.SetDefault("SQLITE_FILE", "data/pataverde.db")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "pataverde_events")
	v.SetDefault("HASH_PASSWORDS", false)
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// Load reads the optional .env file, then environment variables, over the defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v), nil
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	port := v.GetString("APP_PORT")
	if port != "" && !strings.Contains(port, ":") {
		port = ":" + port
	}
	return Config{
		AppPort:       port,
		StoreDriver:   strings.ToLower(v.GetString("STORE_DRIVER")),
		DataFile:      v.GetString("DATA_FILE"),
		SQLiteFile:    v.GetString("SQLITE_FILE"),
		DatabaseDSN:   v.GetString("DATABASE_DSN"),
		RabbitMQURL:   v.GetString("RABBITMQ_URL"),
		RabbitMQQueue: v.GetString("RABBITMQ_QUEUE"),
		HashPasswords: v.GetBool("HASH_PASSWORDS"),
		BcryptCost:    v.GetInt("BCRYPT_COST"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		LogFormat:     v.GetString("LOG_FORMAT"),
	}
}
