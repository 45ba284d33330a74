package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimal = `
environment: test
`

func TestLoadAppliesDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, minimal))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Engine.HistoryWindow != 12 || c.Engine.MomentumWindow != 5 {
		t.Fatalf("window defaults = %d/%d, want 12/5", c.Engine.HistoryWindow, c.Engine.MomentumWindow)
	}
	if c.Engine.MomentumThreshold != 0.5 {
		t.Fatalf("threshold default = %v", c.Engine.MomentumThreshold)
	}
	if c.Engine.FetchInterval != 60*time.Second || c.Engine.RenderInterval != time.Second {
		t.Fatalf("interval defaults = %v/%v", c.Engine.FetchInterval, c.Engine.RenderInterval)
	}
	if c.Engine.HoldCycles != 4 || c.Engine.HistoryLimit != 30 {
		t.Fatalf("hold/history defaults = %d/%d", c.Engine.HoldCycles, c.Engine.HistoryLimit)
	}
	if c.Source.Type != "rest" || c.Source.Pair != "XBTUSD" {
		t.Fatalf("source defaults = %s/%s", c.Source.Type, c.Source.Pair)
	}
}

func TestLoadRejectsMissingEnvironment(t *testing.T) {
	if _, err := Load(writeConfig(t, "server:\n  port: 9000\n")); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadRejectsBadSourceType(t *testing.T) {
	body := minimal + "source:\n  type: carrier-pigeon\n"
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadRejectsKafkaWithoutBrokers(t *testing.T) {
	body := minimal + "kafka:\n  enabled: true\n"
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PAIR", "ETHUSD")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")
	c, err := LoadWithEnv(writeConfig(t, minimal))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Source.Pair != "ETHUSD" {
		t.Fatalf("pair = %s, want env override", c.Source.Pair)
	}
	if len(c.Kafka.Brokers) != 2 {
		t.Fatalf("brokers = %v", c.Kafka.Brokers)
	}
}
