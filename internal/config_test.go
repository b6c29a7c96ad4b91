package internal

import (
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	req := require.New(t)

	// Given an environment without any hub key
	var config Config
	_, err := env.UnmarshalFromEnviron(&config)
	req.NoError(err)

	// Then every default is usable as is
	req.NoError(config.Validate())
	req.Equal(60*time.Second, config.HeartbeatTimeout)
	req.Equal("gpt-4o", config.AIModel)
	req.Empty(config.Censored())
}

func TestConfig_FromEnv(t *testing.T) {
	req := require.New(t)

	t.Setenv("PORT", "9000")
	t.Setenv("MAX_PARTICIPANTS", "2")
	t.Setenv("CENSORED_WORDS", " foo, bar ,,")
	t.Setenv("AI_MODELS", "gpt-4o-mini")

	var config Config
	_, err := env.UnmarshalFromEnviron(&config)
	req.NoError(err)

	req.NoError(config.Validate())
	req.Equal(9000, config.Port)
	req.Equal(2, config.MaxParticipants)
	req.Equal([]string{"foo", "bar"}, config.Censored())
	req.Equal([]string{"gpt-4o-mini"}, config.Models())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		var config Config
		_, err := env.UnmarshalFromEnviron(&config)
		require.NoError(t, err)
		return config
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"No participants", func(c *Config) { c.MaxParticipants = 0 }},
		{"Replay beyond capacity", func(c *Config) { c.ChatReplayLimit = c.ChatLogCapacity + 1 }},
		{"Write timeout too long", func(c *Config) { c.WriteTimeout = c.HeartbeatTimeout }},
		{"Heartbeat too short", func(c *Config) { c.HeartbeatTimeout = time.Millisecond }},
		{"Threshold over 100", func(c *Config) { c.LowCapacityThreshold = 101 }},
		{"Short secret", func(c *Config) { c.JWTSecret = "short" }},
		{"Multi rune replacement", func(c *Config) { c.CharReplacement = "##" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.mutate(&config)
			require.Error(t, config.Validate())
		})
	}
}

func TestCharacterRune(t *testing.T) {
	req := require.New(t)
	r, err := CharacterRune("€")
	req.NoError(err)
	req.Equal('€', r)

	_, err = CharacterRune("")
	req.Error(err)
}
