// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package log

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"loud", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			is := is.New(t)
			is.Equal(ParseLevel(tt.in), tt.want)
		})
	}
}

func TestValidLevel(t *testing.T) {
	is := is.New(t)

	is.True(ValidLevel("warn"))
	is.True(!ValidLevel("loud"))
}

func TestInit_JSON(t *testing.T) {
	is := is.New(t)

	var buf bytes.Buffer
	Init(&buf, "debug", true)
	defer Init(&bytes.Buffer{}, "info", false)

	Wallet.Debug().Str("chain", "ETH").Msg("derive")

	var line map[string]any
	is.NoErr(json.Unmarshal(buf.Bytes(), &line))
	is.Equal(line["component"], "wallet")
	is.Equal(line["chain"], "ETH")
	is.Equal(line["message"], "derive")
	is.Equal(line["level"], "debug")
}

func TestInit_LevelFilters(t *testing.T) {
	is := is.New(t)

	var buf bytes.Buffer
	Init(&buf, "error", true)
	defer Init(&bytes.Buffer{}, "info", false)

	Wallet.Info().Msg("hidden")
	is.Equal(buf.Len(), 0)

	Wallet.Error().Msg("shown")
	is.True(buf.Len() > 0)
}

func TestNewConsoleLogger_NoColorOffTerminal(t *testing.T) {
	is := is.New(t)

	var buf bytes.Buffer
	l := NewConsoleLogger(&buf, "info")
	l.Error().Str("chain", "BTC").Msg("failed")

	is.True(buf.Len() > 0)
	is.True(!strings.Contains(buf.String(), "\x1b["))
}

func TestIsTerminal(t *testing.T) {
	is := is.New(t)

	is.True(!isTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "log")
	is.NoErr(err)
	defer f.Close()
	is.True(!isTerminal(f))
}
