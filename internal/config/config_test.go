package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServiceName != "payment-engine" {
		t.Fatalf("expected default service name, got %q", cfg.ServiceName)
	}
	if cfg.Admin.Enabled || cfg.Kafka.Enabled {
		t.Fatalf("admin and kafka must default to disabled")
	}
	if cfg.Kafka.Topics.TransactionsRejected != "transactions.rejected" {
		t.Fatalf("unexpected default topic %q", cfg.Kafka.Topics.TransactionsRejected)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "log_level: debug\nadmin:\n  enabled: true\n  port: 9100\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected debug log level, got %q", cfg.LogLevel)
	}
	if !cfg.Admin.Enabled || cfg.Admin.Port != 9100 {
		t.Fatalf("expected admin enabled on 9100, got %+v", cfg.Admin)
	}
}

func TestLoadRejectsKafkaWithoutBrokers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "kafka:\n  enabled: true\n  brokers: []\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for empty brokers")
	}
}
