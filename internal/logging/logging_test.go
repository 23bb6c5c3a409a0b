package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{" WARNING ", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"loud", zerolog.NoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestSetupWritesConsoleAndFile(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	var console bytes.Buffer
	file := filepath.Join(t.TempDir(), "summabrowse.log")

	closer, err := Setup(Options{Level: "info", File: file, MaxSizeMB: 1, Console: &console, NoColor: true})
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Str("url", "https://example.com").Msg("extracted")
	require.NoError(t, closer.Close())

	assert.Contains(t, console.String(), "extracted")
	assert.Contains(t, console.String(), "url=https://example.com")
	assert.NotContains(t, console.String(), "hidden")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"extracted"`)
}

func TestSetupRejectsBadLevel(t *testing.T) {
	_, err := Setup(Options{Level: "verbose"})
	assert.Error(t, err)
}
