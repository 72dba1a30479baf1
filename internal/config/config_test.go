package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Queue.MaxRecords != 50 {
		t.Errorf("Queue.MaxRecords = %d, want %d", cfg.Queue.MaxRecords, 50)
	}
	if cfg.Queue.BlockWhenFull {
		t.Error("Queue.BlockWhenFull = true, want false by default")
	}
	if cfg.Sync.Interval != 30*time.Second {
		t.Errorf("Sync.Interval = %v, want %v", cfg.Sync.Interval, 30*time.Second)
	}
	if cfg.Remote.Backend != "graph" {
		t.Errorf("Remote.Backend = %q, want %q", cfg.Remote.Backend, "graph")
	}
	if cfg.Remote.Graph.DataList != "Process data" {
		t.Errorf("Remote.Graph.DataList = %q, want %q", cfg.Remote.Graph.DataList, "Process data")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("QUEUE_MAX_RECORDS", "100")
	os.Setenv("SYNC_INTERVAL", "5s")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("QUEUE_MAX_RECORDS")
		os.Unsetenv("SYNC_INTERVAL")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Queue.MaxRecords != 100 {
		t.Errorf("Queue.MaxRecords = %d, want %d", cfg.Queue.MaxRecords, 100)
	}
	if cfg.Sync.Interval != 5*time.Second {
		t.Errorf("Sync.Interval = %v, want %v", cfg.Sync.Interval, 5*time.Second)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_MySQLBackendRequiresDSN(t *testing.T) {
	os.Setenv("REMOTE_BACKEND", "mysql")
	defer os.Unsetenv("REMOTE_BACKEND")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for mysql backend without MYSQL_DSN")
	}
	if !contains(err.Error(), "MYSQL_DSN") {
		t.Errorf("error should mention MYSQL_DSN: %v", err)
	}

	os.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/qa?parseTime=true")
	defer os.Unsetenv("MYSQL_DSN")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with DSN error = %v", err)
	}
	if cfg.Remote.MySQL.MaxOpenConns != 10 {
		t.Errorf("Remote.MySQL.MaxOpenConns = %d, want 10", cfg.Remote.MySQL.MaxOpenConns)
	}
}

func TestLoad_Duration(t *testing.T) {
	os.Setenv("SERVER_SHUTDOWN_TIMEOUT", "45s")
	os.Setenv("REF_RELOAD_INTERVAL", "1m30s")
	defer func() {
		os.Unsetenv("SERVER_SHUTDOWN_TIMEOUT")
		os.Unsetenv("REF_RELOAD_INTERVAL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ShutdownTimeout != 45*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want %v", cfg.Server.ShutdownTimeout, 45*time.Second)
	}
	if cfg.Sources.ReloadInterval != 90*time.Second {
		t.Errorf("Sources.ReloadInterval = %v, want %v", cfg.Sources.ReloadInterval, 90*time.Second)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 99999

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid port")
	}
	if !contains(err.Error(), "SERVER_PORT") {
		t.Errorf("error should mention SERVER_PORT: %v", err)
	}
}

func TestValidate_InvalidBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Remote.Backend = "sharepoint"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for unknown backend")
	}
	if !contains(err.Error(), "REMOTE_BACKEND") {
		t.Errorf("error should mention REMOTE_BACKEND: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid log level")
	}
	if !contains(err.Error(), "LOG_LEVEL") {
		t.Errorf("error should mention LOG_LEVEL: %v", err)
	}
}

func TestValidate_NonPositiveQueueCap(t *testing.T) {
	cfg := validConfig()
	cfg.Queue.MaxRecords = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for zero queue cap")
	}
	if !contains(err.Error(), "QUEUE_MAX_RECORDS") {
		t.Errorf("error should mention QUEUE_MAX_RECORDS: %v", err)
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
		{"localhost", 443, "localhost:443"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		got := cfg.Addr()
		if got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestConfigString_MasksDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Remote.MySQL.DSN = "hoitkn:topsecret@tcp(db.example.com:3306)/qa"

	str := cfg.String()
	if contains(str, "topsecret") || contains(str, "db.example.com") {
		t.Error("String() should mask the DSN")
	}
	if !contains(str, "MASKED") {
		t.Error("String() should contain MASKED placeholder")
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080, ShutdownTimeout: 30 * time.Second},
		Sources: SourceConfig{
			EmployeesPath: "data/employees.xlsx",
			NoodlePath:    "data/noodle.xlsx",
		},
		Queue: QueueConfig{Path: "data/queue", MaxRecords: 50},
		Sync:  SyncConfig{Interval: 30 * time.Second},
		Remote: RemoteConfig{
			Backend: "graph",
			Graph: GraphConfig{
				SitePath: "example.sharepoint.com:/sites/QA",
				DataList: "Process data",
			},
			MySQL: MySQLConfig{MaxOpenConns: 10},
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(s) > 0 && containsHelper(s, substr))
}

func containsHelper(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
