package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`
	Source struct {
		Type           string        `yaml:"type" default:"rest"` // rest or websocket
		Pair           string        `yaml:"pair" default:"XBTUSD"`
		TickerURL      string        `yaml:"ticker_url" default:"https://api.kraken.com/0/public/Ticker"`
		WebsocketURL   string        `yaml:"websocket_url" default:"wss://ws.kraken.com"`
		WebsocketPair  string        `yaml:"websocket_pair" default:"XBT/USD"`
		Timeout        time.Duration `yaml:"timeout" default:"10s"`
		Attempts       int           `yaml:"attempts" default:"3"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay" default:"5s"`
		Staleness      time.Duration `yaml:"staleness" default:"90s"`
	} `yaml:"source"`
	Engine struct {
		FetchInterval     time.Duration `yaml:"fetch_interval" default:"60s"`
		RenderInterval    time.Duration `yaml:"render_interval" default:"1s"`
		HistoryWindow     int           `yaml:"history_window" default:"12"`
		MomentumWindow    int           `yaml:"momentum_window" default:"5"`
		MomentumThreshold float64       `yaml:"momentum_threshold" default:"0.5"`
		TriggerProb       float64       `yaml:"trigger_prob" default:"0.4"`
		NoiseProb         float64       `yaml:"noise_prob" default:"0.05"`
		HoldCycles        int           `yaml:"hold_cycles" default:"4"`
		HistoryLimit      int           `yaml:"history_limit" default:"30"`
		Seed              int64         `yaml:"seed"` // 0 picks a time-based seed
	} `yaml:"engine"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"tape.decisions"`
		Compression  string        `yaml:"compression" default:"gzip"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"kafka"`
	Redis struct {
		Enabled     bool          `yaml:"enabled"`
		Addr        string        `yaml:"addr"`
		Password    string        `yaml:"password"`
		DB          int           `yaml:"db"`
		Prefix      string        `yaml:"prefix" default:"tapereader"`
		SnapshotTTL time.Duration `yaml:"snapshot_ttl" default:"5m"`
	} `yaml:"redis"`
}

// Load reads and parses a YAML configuration file, applies defaults and
// validates required fields.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PAIR"); v != "" {
		c.Source.Pair = v
	}
	if v := os.Getenv("SOURCE_TYPE"); v != "" {
		c.Source.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Source.Type != "rest" && c.Source.Type != "websocket" {
		return fmt.Errorf("source.type must be 'rest' or 'websocket', got '%s'", c.Source.Type)
	}
	if c.Source.Pair == "" {
		return fmt.Errorf("source.pair is required")
	}
	if c.Engine.HistoryWindow <= 0 || c.Engine.MomentumWindow <= 0 {
		return fmt.Errorf("engine windows must be positive")
	}
	if c.Engine.HoldCycles <= 0 || c.Engine.HistoryLimit <= 0 {
		return fmt.Errorf("engine.hold_cycles and engine.history_limit must be positive")
	}
	if c.Engine.TriggerProb < 0 || c.Engine.TriggerProb > 1 || c.Engine.NoiseProb < 0 || c.Engine.NoiseProb > 1 {
		return fmt.Errorf("engine probabilities must be within [0, 1]")
	}
	if c.Engine.FetchInterval <= 0 {
		return fmt.Errorf("engine.fetch_interval must be positive")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	return nil
}
