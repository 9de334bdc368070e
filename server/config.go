package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config 服务端全部可调参数；默认值见 DefaultConfig
type Config struct {
	Network  NetworkConfig  `yaml:"network" toml:"network"`
	World    WorldConfig    `yaml:"world" toml:"world"`
	Steering SteeringConfig `yaml:"steering" toml:"steering"`
	Logging  LogConfig      `yaml:"logging" toml:"logging"`
}

type NetworkConfig struct {
	BindAddress  string        `yaml:"bind_address" toml:"bind_address"`
	TickInterval time.Duration `yaml:"tick_interval" toml:"tick_interval"`
	WriteTimeout time.Duration `yaml:"write_timeout" toml:"write_timeout"`
	AcceptQueue  int           `yaml:"accept_queue" toml:"accept_queue"` // 等待 Tick 接纳的新连接上限
	InboxSize    int           `yaml:"inbox_size" toml:"inbox_size"`     // 每连接缓存的入站帧数，溢出时丢最旧
	ReadLimit    int64         `yaml:"read_limit" toml:"read_limit"`     // 单帧最大字节数
}

type WorldConfig struct {
	Spawn         Vec2 `yaml:"spawn" toml:"spawn"`
	DefaultTarget Vec2 `yaml:"default_target" toml:"default_target"`
	MaxEntities   int  `yaml:"max_entities" toml:"max_entities"`
}

type SteeringConfig struct {
	Policy           string  `yaml:"policy" toml:"policy"` // "turn" | "snap"
	ArrivalThreshold float64 `yaml:"arrival_threshold" toml:"arrival_threshold"`
	Speed            float64 `yaml:"speed" toml:"speed"`         // 每 Tick 前进距离
	TurnRate         float64 `yaml:"turn_rate" toml:"turn_rate"` // 每 Tick 最大转角（度）
}

type LogConfig struct {
	Path       string `yaml:"path" toml:"path"`
	Level      string `yaml:"level" toml:"level"`
	Stderr     bool   `yaml:"stderr" toml:"stderr"`
	MaxSizeMB  int    `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" toml:"max_age_days"`
}

func DefaultConfig() Config {
	return Config{
		Network: NetworkConfig{
			BindAddress:  "127.0.0.1:63987",
			TickInterval: 100 * time.Millisecond,
			WriteTimeout: 2 * time.Second,
			AcceptQueue:  64,
			InboxSize:    8,
			ReadLimit:    1 << 16,
		},
		World: WorldConfig{
			Spawn:         Vec2{X: 0, Y: 0},
			DefaultTarget: Vec2{X: 100, Y: 100},
			MaxEntities:   1024,
		},
		Steering: SteeringConfig{
			Policy:           string(PolicyTurn),
			ArrivalThreshold: 3,
			Speed:            3,
			TurnRate:         5,
		},
		Logging: LogConfig{
			Path:       "app.log",
			Level:      "info",
			Stderr:     true,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// LoadConfig 在默认值之上叠加配置文件；.toml 用 TOML 解析，其余按 YAML。
// path 为空时直接返回默认值。
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(raw, &cfg)
	default:
		err = yaml.Unmarshal(raw, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Network.TickInterval <= 0 {
		return fmt.Errorf("network.tick_interval must be positive, got %s", c.Network.TickInterval)
	}
	if c.Network.AcceptQueue <= 0 || c.Network.InboxSize <= 0 {
		return fmt.Errorf("network queue sizes must be positive")
	}
	if c.World.MaxEntities <= 0 || c.World.MaxEntities > maxEntityID+1 {
		return fmt.Errorf("world.max_entities must be in [1, %d], got %d", maxEntityID+1, c.World.MaxEntities)
	}
	if _, err := c.Steering.Build(); err != nil {
		return err
	}
	return nil
}

// Build 将配置转换为 Steering 参数并校验
func (s SteeringConfig) Build() (Steering, error) {
	policy, err := ParsePolicy(s.Policy)
	if err != nil {
		return Steering{}, err
	}
	if s.ArrivalThreshold <= 0 || s.Speed <= 0 || s.TurnRate <= 0 {
		return Steering{}, fmt.Errorf("steering: threshold, speed and turn_rate must be positive")
	}
	return Steering{
		Policy:           policy,
		ArrivalThreshold: s.ArrivalThreshold,
		Speed:            s.Speed,
		TurnRate:         s.TurnRate,
	}, nil
}
