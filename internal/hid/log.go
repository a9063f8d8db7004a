package hid

import "github.com/leandrodaf/midisteno/sdk/contracts"

// LogOutput writes key actions to the log instead of a device. Useful for
// dry runs and for checking a layout before pairing.
type LogOutput struct {
	logger contracts.Logger
}

// NewLogOutput returns a sink logging each action at debug level.
func NewLogOutput(logger contracts.Logger) *LogOutput {
	return &LogOutput{logger: logger}
}

func (l *LogOutput) SendEvent(keyType uint8, code uint16, value uint8) {
	l.logger.Debug("HID event",
		l.logger.Field().Uint8("type", keyType),
		l.logger.Field().Int("code", int(code)),
		l.logger.Field().Uint8("value", value))
}
