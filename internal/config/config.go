// Package config provides functionality for managing configuration options
// for the application using command-line flags, an optional JSON file and
// environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"address"`

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string `json:"database_dsn"`

	// Config is the path to the Config file.
	Config string `json:"-"`

	// LogLevel is the minimum zap level (debug, info, warn, error).
	LogLevel string `json:"log_level"`

	// HistoryKeep is how many recent passwords are remembered per user.
	HistoryKeep int `json:"history_keep"`

	// MaxUploadBytes caps the size of a receipt upload request.
	MaxUploadBytes int64 `json:"max_upload_bytes"`

	// PruneInterval is the period of the background history sweep
	// (nanoseconds in the JSON file).
	PruneInterval time.Duration `json:"prune_interval"`

	// BcryptCost is the work factor for password hashes.
	BcryptCost int `json:"bcrypt_cost"`

	// TLSCert, TLSKey and TLSCA are PEM file paths for the HTTPS listener.
	TLSCert string `json:"tls_cert"`
	TLSKey  string `json:"tls_key"`
	TLSCA   string `json:"tls_ca"`
}

// Defaults.
const (
	DefaultHistoryKeep    = 5
	DefaultMaxUploadBytes = 10 << 20
	DefaultPruneInterval  = time.Hour
	DefaultBcryptCost     = 10
)

// Bounds accepted by golang.org/x/crypto/bcrypt.
const (
	minBcryptCost = 4
	maxBcryptCost = 31
)

// ErrInvalidOptions is wrapped by every Validate failure.
var ErrInvalidOptions = errors.New("invalid options")

func newFlagSet(name string, o *Options) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&o.Port, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&o.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&o.Config, "config", "config.json", "path to config file")
	fs.StringVar(&o.Config, "c", "config.json", "path to config file (shorthand)")
	fs.StringVar(&o.LogLevel, "l", "info", "log level")
	fs.IntVar(&o.HistoryKeep, "keep", DefaultHistoryKeep, "number of recent passwords remembered per user")
	fs.Int64Var(&o.MaxUploadBytes, "max-upload", DefaultMaxUploadBytes, "receipt upload size limit in bytes")
	fs.DurationVar(&o.PruneInterval, "prune-interval", DefaultPruneInterval, "password history sweep interval")
	fs.IntVar(&o.BcryptCost, "bcrypt-cost", DefaultBcryptCost, "bcrypt work factor")
	fs.StringVar(&o.TLSCert, "tls-cert", "certs/server.crt", "server certificate")
	fs.StringVar(&o.TLSKey, "tls-key", "certs/server.key", "server private key")
	fs.StringVar(&o.TLSCA, "tls-ca", "certs/ca.crt", "CA used to verify client certificates")
	return fs
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It exits the process on invalid configuration.
func Parse() *Options {
	options, err := Load(os.Args[0], os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return options
}

// Load builds Options from args, then the JSON config file if it exists, then
// environment variables read through getenv. Later sources win.
func Load(name string, args []string, getenv func(string) string) (*Options, error) {
	options := &Options{}
	fs := newFlagSet(name, options)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Override flags with environment variables if set
	if configPath := getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				return nil, fmt.Errorf("error while reading config file: %w", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				return nil, fmt.Errorf("error while parsing config file: %w", err)
			}
		}
	}

	if serverAddress := getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}
	if dsn := getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if level := getenv("LOG_LEVEL"); level != "" {
		options.LogLevel = level
	}
	if keep := getenv("HISTORY_KEEP"); keep != "" {
		n, err := strconv.Atoi(keep)
		if err != nil {
			return nil, fmt.Errorf("%w: HISTORY_KEEP: %v", ErrInvalidOptions, err)
		}
		options.HistoryKeep = n
	}

	if err := options.Validate(); err != nil {
		return nil, err
	}
	return options, nil
}

// Validate reports the first invalid value.
func (o *Options) Validate() error {
	switch {
	case o.HistoryKeep < 1:
		return fmt.Errorf("%w: history keep must be at least 1, got %d", ErrInvalidOptions, o.HistoryKeep)
	case o.MaxUploadBytes <= 0:
		return fmt.Errorf("%w: max upload bytes must be positive, got %d", ErrInvalidOptions, o.MaxUploadBytes)
	case o.PruneInterval <= 0:
		return fmt.Errorf("%w: prune interval must be positive, got %s", ErrInvalidOptions, o.PruneInterval)
	case o.BcryptCost < minBcryptCost || o.BcryptCost > maxBcryptCost:
		return fmt.Errorf("%w: bcrypt cost must be in [%d, %d], got %d", ErrInvalidOptions, minBcryptCost, maxBcryptCost, o.BcryptCost)
	}
	return nil
}
