package db

import (
	"fmt"
	"net/url"

	"github.com/kacperborowieckb/gen-records/utils/env"
)

// DefaultTable receives records when the user does not name a table.
const DefaultTable = "generated_records"

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether a Postgres host was configured at all.
func Enabled() bool {
	return env.IsSet("POSTGRES_HOST")
}

func DBConfig() (Config, error) {
	cfg := Config{
		Host:     env.GetString("POSTGRES_HOST", "localhost"),
		Port:     env.GetString("DB_PORT", "5432"),
		User:     env.GetString("POSTGRES_USER", "postgres"),
		Password: env.GetString("POSTGRES_PASSWORD", "postgres"),
		DBName:   env.GetString("POSTGRES_DB", "genrecords"),
		SSLMode:  env.GetString("POSTGRES_SSLMODE", "disable"),
	}

	if cfg.DBName == "" {
		return Config{}, fmt.Errorf("POSTGRES_DB must not be empty")
	}

	return cfg, nil
}

// URL renders the config as a lib/pq connection URL.
func (c Config) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}
