package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	MongoURI   string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB    string `env:"MONGO_DB_NAME" envDefault:"taskhub"`
	Debug      bool   `env:"APP_DEBUG" envDefault:"false"`
	LogFile    string `env:"LOG_FILE" envDefault:"logs/taskhub.log"`
	BcryptCost int    `env:"BCRYPT_COST" envDefault:"10"`
}

// Load reads an optional .env file and parses configuration from the
// environment. A missing .env file is not an error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
