package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldModel is the structured log field key for the model identifier.
	FieldModel = "model"
	// FieldSection is the structured log field key for a resume section name.
	FieldSection = "section"
)

// With safely attaches fields to the logger, defaulting to a no-op logger
// when nil so callers never have to guard against panics.
func With(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// ModelField returns the model field, or a skipped field when the value is
// blank, keeping entries compact when information is missing.
func ModelField(model string) zap.Field {
	model = strings.TrimSpace(model)
	if model == "" {
		return zap.Skip()
	}
	return zap.String(FieldModel, model)
}

// SectionField returns the section field, or a skipped field when blank.
func SectionField(name string) zap.Field {
	name = strings.TrimSpace(name)
	if name == "" {
		return zap.Skip()
	}
	return zap.String(FieldSection, name)
}
