// Package logging builds the zap logger and adapts it to admin.Logger.
package logging

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fivetwenty-io/crudadmin/internal/constants"
	"github.com/fivetwenty-io/crudadmin/pkg/admin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New creates a zap logger at level ("debug", "info", "warn", "error").
// Console output uses the development encoder, JSON the production one.
func New(level, format string) (*zap.Logger, error) {
	zapLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config

	switch strings.ToLower(format) {
	case "", FormatConsole:
		cfg = zap.NewDevelopmentConfig()
	case FormatJSON:
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("%w: %q", constants.ErrInvalidLogFormat, format)
	}

	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	return logger, nil
}

// ParseLevel converts a level name to a zap level. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}

	var zapLevel zapcore.Level

	err := zapLevel.UnmarshalText([]byte(strings.ToLower(level)))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("%w: %q", constants.ErrInvalidLogLevel, level)
	}

	return zapLevel, nil
}

// Adapter implements admin.Logger on top of zap.
type Adapter struct {
	logger *zap.Logger
}

var _ admin.Logger = (*Adapter)(nil)

// NewAdapter wraps logger. A nil logger discards everything.
func NewAdapter(logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Adapter{logger: logger}
}

// Zap returns the wrapped logger.
func (a *Adapter) Zap() *zap.Logger {
	return a.logger
}

func (a *Adapter) Debug(msg string, fields map[string]interface{}) {
	a.logger.Debug(msg, toFields(fields)...)
}

func (a *Adapter) Info(msg string, fields map[string]interface{}) {
	a.logger.Info(msg, toFields(fields)...)
}

func (a *Adapter) Warn(msg string, fields map[string]interface{}) {
	a.logger.Warn(msg, toFields(fields)...)
}

func (a *Adapter) Error(msg string, fields map[string]interface{}) {
	a.logger.Error(msg, toFields(fields)...)
}

// toFields converts a field map to zap fields in key order.
func toFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, key := range keys {
		out = append(out, zap.Any(key, fields[key]))
	}

	return out
}
