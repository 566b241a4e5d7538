package logging

import (
	"alcyxob/workout-tracker/internal/config"
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":     zerolog.DebugLevel,
		"  DeBuG  ": zerolog.DebugLevel,
		"":          zerolog.InfoLevel,
		"info":      zerolog.InfoLevel,
		"warning":   zerolog.WarnLevel,
		"error":     zerolog.ErrorLevel,
		"fatal":     zerolog.FatalLevel,
		"panic":     zerolog.PanicLevel,
		"verbose":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestSetupWritesJSON(t *testing.T) {
	orig := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(orig) })

	var buf bytes.Buffer
	logger := setup(config.LogConfig{Level: "warn"}, &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Str("user_id", "u1").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"user_id":"u1"`)
	assert.Contains(t, out, `"service":"workout-tracker"`)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}
