package internal

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Host      string `env:"HOST,default=0.0.0.0"`
	Port      int    `env:"PORT,default=5000"`
	AdminPort int    `env:"ADMIN_PORT,default=5001"`
	LogLevel  string `env:"LOG_LEVEL,default=INFO"`

	MaxParticipants      int `env:"MAX_PARTICIPANTS,default=256"`
	BufferSize           int `env:"BUFFER_SIZE,default=1024"`
	ConnectionBufferSize int `env:"CONNECTION_BUFFER_SIZE,default=64"`
	ChatBacklog          int `env:"CHAT_BACKLOG,default=256"`
	ChatLogCapacity      int `env:"CHAT_LOG_CAPACITY,default=500"`
	ChatReplayLimit      int `env:"CHAT_REPLAY_LIMIT,default=100"`
	MaxContentLength     int `env:"MAX_CONTENT_LENGTH,default=1048576"`
	MaxChatLength        int `env:"MAX_CHAT_LENGTH,default=4096"`

	HeartbeatTimeout     time.Duration `env:"HEARTBEAT_TIMEOUT,default=60s"`
	WriteTimeout         time.Duration `env:"WRITE_TIMEOUT,default=10s"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,default=2s"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=10s"`
	LowCapacityThreshold int           `env:"LOW_CAPACITY_THRESHOLD,default=80"`

	BadgerFilepath string `env:"BADGER_FILEPATH,default=./data/badger"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,default=./data/bluge"`

	CensoredWords   string `env:"CENSORED_WORDS"`
	CharReplacement string `env:"CHARACTER_REPLACEMENT,default=#"`

	JWTSecret         string        `env:"JWT_SECRET"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`

	OpenAIAPIKey  string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `env:"OPENAI_BASE_URL"`
	AIModel       string        `env:"AI_MODEL,default=gpt-4o"`
	AIModels      string        `env:"AI_MODELS"`
	AIMaxTokens   int64         `env:"AI_MAX_TOKENS,default=500"`
	AITimeout     time.Duration `env:"AI_TIMEOUT,default=60s"`
}

// Validate rejects combinations the hub cannot run with.
func (c Config) Validate() error {
	positives := map[string]int{
		"PORT":                   c.Port,
		"MAX_PARTICIPANTS":       c.MaxParticipants,
		"BUFFER_SIZE":            c.BufferSize,
		"CONNECTION_BUFFER_SIZE": c.ConnectionBufferSize,
		"CHAT_BACKLOG":           c.ChatBacklog,
		"CHAT_LOG_CAPACITY":      c.ChatLogCapacity,
		"MAX_CONTENT_LENGTH":     c.MaxContentLength,
		"MAX_CHAT_LENGTH":        c.MaxChatLength,
	}
	for key, value := range positives {
		if value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", key, value)
		}
	}
	if c.ChatReplayLimit < 0 || c.ChatReplayLimit > c.ChatLogCapacity {
		return fmt.Errorf("CHAT_REPLAY_LIMIT must be between 0 and CHAT_LOG_CAPACITY (%d), got %d",
			c.ChatLogCapacity, c.ChatReplayLimit)
	}
	if c.HeartbeatTimeout < time.Second {
		return fmt.Errorf("HEARTBEAT_TIMEOUT must be at least 1s, got %s", c.HeartbeatTimeout)
	}
	if c.WriteTimeout <= 0 || c.WriteTimeout >= c.HeartbeatTimeout {
		return fmt.Errorf("WRITE_TIMEOUT must be positive and shorter than HEARTBEAT_TIMEOUT, got %s", c.WriteTimeout)
	}
	if c.LowCapacityThreshold <= 0 || c.LowCapacityThreshold > 100 {
		return fmt.Errorf("LOW_CAPACITY_THRESHOLD must be a percentage, got %d", c.LowCapacityThreshold)
	}
	if c.JWTSecret != "" && len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 bytes")
	}
	if c.AIMaxTokens <= 0 {
		return fmt.Errorf("AI_MAX_TOKENS must be positive, got %d", c.AIMaxTokens)
	}
	if _, err := CharacterRune(c.CharReplacement); err != nil {
		return err
	}
	return nil
}

// ArchiveEnabled reports whether chat is persisted to disk.
func (c Config) ArchiveEnabled() bool {
	return c.BadgerFilepath != ""
}

func (c Config) Censored() []string {
	return SplitList(c.CensoredWords)
}

func (c Config) Models() []string {
	return SplitList(c.AIModels)
}

// SplitList parses a comma separated env value, ignoring blanks.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
