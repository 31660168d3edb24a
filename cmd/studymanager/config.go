package main

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/kanato-tk51/study-manager/internal/logger"
)

const (
	defaultListenAddr     = "localhost:8000"
	defaultLoggingLevel   = logger.LevelInfo
	defaultAccessTokenTTL = 15 * time.Minute
	defaultRefreshTTLDays = 30
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the service will listen
	ListenAddr string

	// Database to connect to
	DatabaseDSN string

	// Secret key used to sign JWT access tokens
	// Must be set; the app refuses to start without it
	SecretKey string

	// Access token lifetime
	AccessTokenTTL time.Duration

	// Refresh token lifetime in whole days
	RefreshTokenTTLDays int
}

func NewConfig() *Config {
	return &Config{
		LogLevel:            defaultLoggingLevel,
		ListenAddr:          defaultListenAddr,
		AccessTokenTTL:      defaultAccessTokenTTL,
		RefreshTokenTTLDays: defaultRefreshTTLDays,
	}
}

// Load variables from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		c.LoadEnv(func(key string) string {
			return envMap[key]
		})
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) {
		return func(value string) {
			if value != "" {
				*o = value
			}
		}
	}
	setDuration := func(o *time.Duration) func(value string) {
		return func(value string) {
			if d, err := time.ParseDuration(value); err == nil {
				*o = d
			}
		}
	}
	setInt := func(o *int) func(value string) {
		return func(value string) {
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				*o = n
			}
		}
	}

	envMap := map[string]func(string){
		"RUN_ADDRESS":            setString(&c.ListenAddr),
		"DATABASE_URI":           setString(&c.DatabaseDSN),
		"JWT_SECRET":             setString(&c.SecretKey),
		"LOG_LEVEL":              setString(&c.LogLevel),
		"ACCESS_TOKEN_TTL":       setDuration(&c.AccessTokenTTL),
		"REFRESH_TOKEN_TTL_DAYS": setInt(&c.RefreshTokenTTLDays),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("studymanager", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "JWT signing secret")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.DurationVar(&c.AccessTokenTTL, "access-ttl", c.AccessTokenTTL, "Access token lifetime")
	fs.IntVar(&c.RefreshTokenTTLDays, "refresh-ttl-days", c.RefreshTokenTTLDays, "Refresh token lifetime in days")

	return fs.Parse(args)
}
