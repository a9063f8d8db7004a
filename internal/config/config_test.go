package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leandrodaf/midisteno/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	fc, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	cfg, err := fc.Resolve()
	require.NoError(t, err)
	assert.Equal(t, SourceMIDI, cfg.Source)
	assert.Equal(t, SinkBlueZ, cfg.Sink)
	assert.Equal(t, 500*time.Millisecond, cfg.ChordThreshold)
	assert.Equal(t, 550*time.Millisecond, cfg.SilenceThreshold)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
flush-on-exit = true

[input]
source = "evdev"
evdev-path = "/dev/input/event3"
grab = true

[timing]
chord-threshold = "300ms"
silence-threshold = "1s"

[output]
sink = "log"

[log]
level = "debug"
`)
	fc, err := LoadConfig(path)
	require.NoError(t, err)
	cfg, err := fc.Resolve()
	require.NoError(t, err)

	assert.Equal(t, SourceEvdev, cfg.Source)
	assert.Equal(t, "/dev/input/event3", cfg.EvdevPath)
	assert.True(t, cfg.Grab)
	assert.Equal(t, 300*time.Millisecond, cfg.ChordThreshold)
	assert.Equal(t, time.Second, cfg.SilenceThreshold)
	assert.Equal(t, 10*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, SinkLog, cfg.Sink)
	assert.Equal(t, contracts.DebugLevel, cfg.LogLevel)
	assert.True(t, cfg.FlushOnExit)
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "[input]\nsorce = \"midi\"\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestResolveValidation(t *testing.T) {
	cases := map[string]string{
		"source":         "[input]\nsource = \"serial\"\n",
		"evdev path":     "[input]\nsource = \"evdev\"\n",
		"velocity":       "[input]\ndefault-velocity = 200\n",
		"sink":           "[output]\nsink = \"usb\"\n",
		"level":          "[log]\nlevel = \"loud\"\n",
		"zero threshold": "[timing]\nchord-threshold = \"0s\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			fc, err := LoadConfig(writeConfig(t, body))
			require.NoError(t, err)
			_, err = fc.Resolve()
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	assert.Equal(t, filepath.Join("/cfg", "midisteno", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/data", "midisteno", "layouts.db"), DefaultStorePath())
}
