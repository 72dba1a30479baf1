// Package config provides centralized configuration management for the
// application. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server  ServerConfig
	Sources SourceConfig
	Queue   QueueConfig
	Sync    SyncConfig
	Remote  RemoteConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// SourceConfig names the reference workbooks. Each path is a local file or
// an http(s) URL.
type SourceConfig struct {
	// EmployeesPath is the employee roster workbook.
	EmployeesPath string `env:"REF_EMPLOYEES_PATH" default:"data/Danh sách nhân viên.xlsx"`

	// NoodlePath is the noodle process-condition workbook.
	NoodlePath string `env:"REF_NOODLE_PATH" default:"data/Data DKSX Mì.xlsx"`

	// RiceNoodlePath is the rice-noodle process-condition workbook.
	// Optional; sites without a rice-noodle process leave it empty.
	RiceNoodlePath string `env:"REF_RICE_NOODLE_PATH"`

	// ReloadInterval re-ingests the workbooks periodically. Zero disables
	// periodic reloads; the catalog then only changes on restart.
	ReloadInterval time.Duration `env:"REF_RELOAD_INTERVAL" default:"0s"`
}

// QueueConfig holds offline queue settings.
type QueueConfig struct {
	// Path is the directory for the durable queue store (default: data/queue)
	Path string `env:"QUEUE_PATH" default:"data/queue"`

	// MaxRecords caps how many submissions the queue keeps (default: 50)
	MaxRecords int `env:"QUEUE_MAX_RECORDS" default:"50"`

	// BlockWhenFull rejects new submissions at capacity instead of
	// dropping the oldest queued ones (default: false)
	BlockWhenFull bool `env:"QUEUE_BLOCK_WHEN_FULL" default:"false"`
}

// SyncConfig holds background sync settings.
type SyncConfig struct {
	// Interval is how often the queue retries delivery (default: 30s)
	Interval time.Duration `env:"SYNC_INTERVAL" default:"30s"`
}

// RemoteConfig selects and configures the remote store.
type RemoteConfig struct {
	// Backend picks the remote store: "graph" or "mysql" (default: graph)
	Backend string `env:"REMOTE_BACKEND" default:"graph"`

	Graph GraphConfig
	MySQL MySQLConfig
}

// GraphConfig holds Microsoft Graph list-service settings.
type GraphConfig struct {
	// BaseURL is the Graph API root, overridable for tests.
	BaseURL string `env:"GRAPH_BASE_URL" default:"https://graph.microsoft.com/v1.0"`

	// SitePath is the host-relative SharePoint site address.
	SitePath string `env:"GRAPH_SITE_PATH" default:"masangroup.sharepoint.com:/sites/MCH.MMB.QA"`

	// DataList and ParameterList are the display names of the submission
	// list and the parameter list.
	DataList      string `env:"GRAPH_DATA_LIST" default:"Process data"`
	ParameterList string `env:"GRAPH_PARAMETER_LIST" default:"Process parameter"`

	// AccessToken is the bearer token for the Graph API. Without one the
	// server starts but every remote write reports "not authenticated".
	AccessToken string `env:"GRAPH_ACCESS_TOKEN"`
}

// MySQLConfig holds settings for the relational backend.
type MySQLConfig struct {
	// DSN is the go-sql-driver connection string. Required when
	// REMOTE_BACKEND is "mysql".
	DSN string `env:"MYSQL_DSN"`

	// MaxOpenConns bounds the connection pool (default: 10)
	MaxOpenConns int `env:"MYSQL_MAX_OPEN_CONNS" default:"10"`

	// ConnMaxLifetime is the maximum lifetime of a pooled connection (default: 1h)
	ConnMaxLifetime time.Duration `env:"MYSQL_CONN_MAX_LIFETIME" default:"1h"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + itoa(c.Port)
	}
	return c.Host + ":" + itoa(c.Port)
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
