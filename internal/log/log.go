// Package log wraps a process-wide zap logger. The tool runs as a short
// CI step, so everything goes to stderr as plain console output and the
// only knob is the level.
package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugared *zap.SugaredLogger

func init() {
	setup(zapcore.InfoLevel)
}

func setup(level zapcore.Level) {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(os.Stderr),
		level,
	)
	sugared = zap.New(core).Sugar()
}

// SetLevel reconfigures the global logger. Unknown names keep info.
func SetLevel(name string) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		l = zapcore.InfoLevel
	}
	setup(l)
}

func Debugf(format string, args ...interface{}) { sugared.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { sugared.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { sugared.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { sugared.Errorf(format, args...) }
