package cli

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultVerbosity logs info and above.
const DefaultVerbosity = 3

// verbosityLevels maps --verbose to the minimum logged level:
// 0 critical only, 1 errors, 2 warnings, 3 info, 4 debug.
var verbosityLevels = []zapcore.Level{
	zapcore.FatalLevel,
	zapcore.ErrorLevel,
	zapcore.WarnLevel,
	zapcore.InfoLevel,
	zapcore.DebugLevel,
}

// LevelForVerbosity converts a --verbose value to a zap level.
func LevelForVerbosity(verbose int) (zapcore.Level, error) {
	if verbose < 0 || verbose >= len(verbosityLevels) {
		return 0, fmt.Errorf("verbose must be between 0 and %d, got %d", len(verbosityLevels)-1, verbose)
	}
	return verbosityLevels[verbose], nil
}

// NewLogger builds a console logger writing "time [LEVEL]: message" lines
// to w.
func NewLogger(w io.Writer, verbose int) (*zap.Logger, error) {
	level, err := LevelForVerbosity(verbose)
	if err != nil {
		return nil, err
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeLevel:      bracketLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core), nil
}

func bracketLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + l.CapitalString() + "]:")
}
