package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration and panics on error.
// Use this only in main() where early termination is desired.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		// Recurse into nested structs
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		value := os.Getenv(envName)

		// Apply default if not set
		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		// Handle time.Duration specially
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	// Source validation
	if c.Sources.EmployeesPath == "" {
		errs = append(errs, "REF_EMPLOYEES_PATH is required")
	}
	if c.Sources.NoodlePath == "" {
		errs = append(errs, "REF_NOODLE_PATH is required")
	}
	if c.Sources.ReloadInterval < 0 {
		errs = append(errs, "REF_RELOAD_INTERVAL must be non-negative")
	}

	// Queue validation
	if c.Queue.Path == "" {
		errs = append(errs, "QUEUE_PATH is required")
	}
	if c.Queue.MaxRecords <= 0 {
		errs = append(errs, "QUEUE_MAX_RECORDS must be positive")
	}

	// Sync validation
	if c.Sync.Interval < 0 {
		errs = append(errs, "SYNC_INTERVAL must be non-negative")
	}

	// Remote validation
	switch strings.ToLower(c.Remote.Backend) {
	case "graph":
		if c.Remote.Graph.SitePath == "" {
			errs = append(errs, "GRAPH_SITE_PATH is required for the graph backend")
		}
		if c.Remote.Graph.DataList == "" {
			errs = append(errs, "GRAPH_DATA_LIST is required for the graph backend")
		}
	case "mysql":
		if c.Remote.MySQL.DSN == "" {
			errs = append(errs, "MYSQL_DSN is required for the mysql backend")
		}
		if c.Remote.MySQL.MaxOpenConns <= 0 {
			errs = append(errs, "MYSQL_MAX_OPEN_CONNS must be positive")
		}
	default:
		errs = append(errs, fmt.Sprintf("REMOTE_BACKEND (%q) must be one of: graph, mysql", c.Remote.Backend))
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// Sensitive values like the database DSN are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Sources: {Employees: %q, Noodle: %q, RiceNoodle: %q}, ",
		c.Sources.EmployeesPath, c.Sources.NoodlePath, c.Sources.RiceNoodlePath))
	b.WriteString(fmt.Sprintf("Queue: {Path: %q, MaxRecords: %d, BlockWhenFull: %v}, ",
		c.Queue.Path, c.Queue.MaxRecords, c.Queue.BlockWhenFull))
	b.WriteString(fmt.Sprintf("Sync: {Interval: %s}, ", c.Sync.Interval))
	b.WriteString(fmt.Sprintf("Remote: {Backend: %q, MySQL: {DSN: [MASKED]}}, ", c.Remote.Backend))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
