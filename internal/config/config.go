// Package config provides functionality for managing configuration options
// for the importer and the import service using command-line flags, an
// optional JSON or YAML config file, and environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Options holds the configuration values for the application.
type Options struct {
	// Input is the file of decoded QR texts, one per line. "-" reads stdin.
	Input string `json:"input" yaml:"input" env:"OTP_INPUT"`

	// Output is the canonical path of the accounts document.
	Output string `json:"output" yaml:"output" env:"OTP_OUTPUT"`

	// Alternate is the file name written next to Output when Output exists.
	Alternate string `json:"alternate" yaml:"alternate" env:"OTP_ALTERNATE"`

	// LogLevel is the minimum level that is logged.
	LogLevel string `json:"log_level" yaml:"log_level" env:"OTP_LOG_LEVEL"`

	// Addr defines the import service's listening address (ip:port).
	Addr string `json:"addr" yaml:"addr" env:"SERVER_ADDRESS"`

	// TLSCert and TLSKey enable HTTPS for the import service when both are set.
	TLSCert string `json:"tls_cert" yaml:"tls_cert" env:"TLS_CERT"`
	TLSKey  string `json:"tls_key" yaml:"tls_key" env:"TLS_KEY"`

	// Config is the path to the config file.
	Config string `json:"-" yaml:"-" env:"CONFIG"`

	// Check validates the existing document instead of importing.
	Check bool `json:"-" yaml:"-"`
	// Print writes the decoded accounts to stdout.
	Print bool `json:"-" yaml:"-"`
	// ShowSecrets includes secrets in printed output.
	ShowSecrets bool `json:"-" yaml:"-"`
	// Version prints build information and exits.
	Version bool `json:"-" yaml:"-"`

	// Texts are decoded QR texts given as arguments; when present they are
	// used instead of Input.
	Texts []string `json:"-" yaml:"-"`
}

// Parse parses the process arguments and environment. It exits on error,
// as flag.Parse does.
func Parse() *Options {
	opts, err := ParseArgs(os.Args[0], os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return opts
}

// ParseArgs builds Options from flag defaults, then the config file, then
// the environment (including a .env file in the working directory), with
// later sources taking precedence.
func ParseArgs(name string, args []string) (*Options, error) {
	opts := &Options{}
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.StringVar(&opts.Input, "in", "-", "file of decoded QR texts, one per line (- for stdin)")
	flags.StringVar(&opts.Output, "out", "accounts.json", "path of the accounts document")
	flags.StringVar(&opts.Alternate, "alt", "updated_accounts.json", "file name used when -out exists")
	flags.StringVar(&opts.LogLevel, "log", "info", "log level")
	flags.StringVar(&opts.Addr, "a", "localhost:8080", "run on ip:port server")
	flags.StringVar(&opts.TLSCert, "cert", "", "TLS certificate for the server")
	flags.StringVar(&opts.TLSKey, "key", "", "TLS key for the server")
	flags.StringVar(&opts.Config, "config", "config.json", "path to config file")
	flags.StringVar(&opts.Config, "c", "config.json", "path to config file (shorthand)")
	flags.BoolVar(&opts.Check, "check", false, "validate the existing accounts document and exit")
	flags.BoolVar(&opts.Print, "print", false, "print decoded accounts to stdout")
	flags.BoolVar(&opts.ShowSecrets, "show-secrets", false, "include secrets when printing")
	flags.BoolVar(&opts.Version, "version", false, "show build version and date")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		opts.Config = configPath
	}
	if err := loadFile(opts); err != nil {
		return nil, err
	}
	if err := env.Parse(opts); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	opts.Texts = flags.Args()
	return opts, nil
}

// loadFile applies the config file if it exists.
func loadFile(opts *Options) error {
	if opts.Config == "" {
		return nil
	}
	data, err := os.ReadFile(opts.Config)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(opts.Config)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, opts)
	default:
		err = json.Unmarshal(data, opts)
	}
	if err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	return nil
}
