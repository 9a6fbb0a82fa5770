package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestNewLevels(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"WARN":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		New(Config{Level: in, Out: &bytes.Buffer{}})
		assert.Equal(t, want, zerolog.GlobalLevel(), in)
	}
}

func TestJSONAndPrettyOutput(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	l := New(Config{Level: "info", Out: &buf})
	l.Info().Str("ticker", "BBCA.JK").Msg("quote fetched")
	assert.Contains(t, buf.String(), `"ticker":"BBCA.JK"`)
	assert.Contains(t, buf.String(), `"message":"quote fetched"`)

	buf.Reset()
	pretty := New(Config{Level: "info", Pretty: true, Out: &buf})
	pretty.Info().Msg("pretty line")
	assert.Contains(t, buf.String(), "pretty line")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestSetGlobal(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)
	orig := log.Logger
	defer func() { log.Logger = orig }()

	var buf bytes.Buffer
	SetGlobal(New(Config{Level: "debug", Out: &buf}))
	log.Debug().Msg("through global")
	assert.Contains(t, buf.String(), "through global")
}
