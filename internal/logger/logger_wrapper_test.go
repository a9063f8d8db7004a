package logger

import (
	"errors"
	"testing"
	"time"

	"github.com/leandrodaf/midisteno/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFieldsReachZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewFromZap(zap.New(core))

	log.Info("chord closed",
		log.Field().Int("keys", 3),
		log.Field().String("phoneme", "n"),
		log.Field().Ints("left", []int{1, 4}),
		log.Field().Duration("gap", 550*time.Millisecond),
		log.Field().Error("error", errors.New("boom")),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "chord closed", entry.Message)
	ctx := entry.ContextMap()
	assert.EqualValues(t, 3, ctx["keys"])
	assert.Equal(t, "n", ctx["phoneme"])
	assert.Equal(t, 550*time.Millisecond, ctx["gap"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestSetLevelFilters(t *testing.T) {
	log := NewZapLogger().(*ZapLogger)
	log.SetLevel(contracts.ErrorLevel)
	assert.False(t, log.level.Enabled(zapcore.WarnLevel))
	assert.True(t, log.level.Enabled(zapcore.ErrorLevel))

	log.SetLevel(contracts.DebugLevel)
	assert.True(t, log.level.Enabled(zapcore.DebugLevel))
}

func TestSetDestinationFile(t *testing.T) {
	path := t.TempDir() + "/midisteno.log"
	log := NewZapLogger().(*ZapLogger)
	log.SetDestination(contracts.FileLog, path)
	log.Info("hello")
	require.NoError(t, log.Sync())

	assert.FileExists(t, path)
}

func TestSetLevelOnWrappedLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewFromZap(zap.New(core))

	log.SetLevel(contracts.WarnLevel)
	log.Debug("dropped")
	log.Info("dropped")
	log.Warn("kept")
	log.Error("kept")

	assert.Equal(t, 2, logs.FilterMessage("kept").Len())
	assert.Zero(t, logs.FilterMessage("dropped").Len())

	log.SetLevel(contracts.DebugLevel)
	log.Debug("back")
	assert.Equal(t, 1, logs.FilterMessage("back").Len())
}
