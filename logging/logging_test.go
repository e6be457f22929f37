package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/TychoHenzen/OctarineCodex/config"
)

func TestNew(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.LoggingConfig
		want zapcore.Level
	}{
		{"console_debug", config.LoggingConfig{Level: "debug", Format: "console"}, zapcore.DebugLevel},
		{"json_warn", config.LoggingConfig{Level: "warn", Format: "json"}, zapcore.WarnLevel},
		{"unknown_level", config.LoggingConfig{Level: "loud", Format: "console"}, zapcore.InfoLevel},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			log, err := New(c.cfg)
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(c.want))
			if c.want > zapcore.DebugLevel {
				assert.False(t, log.Core().Enabled(c.want-1))
			}
		})
	}
}
