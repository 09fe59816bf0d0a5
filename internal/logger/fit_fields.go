package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldCategory is the structured log field key for the garment fit category.
	FieldCategory = "fit_category"
	// FieldPredictedFit is the structured log field key for the scorer label.
	FieldPredictedFit = "predicted_fit"
	// FieldConfidence is the structured log field key for the confidence tier.
	FieldConfidence = "confidence"
	// FieldErrorKind is the structured log field key for a classified scorer failure.
	FieldErrorKind = "error_kind"
	FieldUserID    = "user_id"
	FieldProductID = "product_id"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches the provided fields to the logger, defaulting to a
// no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	logger = OrNop(logger)

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// PredictionFields describes a prediction outcome. Empty values are dropped
// so failed predictions only carry the error kind.
func PredictionFields(category, predictedFit, confidence, errorKind string) []zap.Field {
	return StringFields(
		StringField{Key: FieldCategory, Value: category},
		StringField{Key: FieldPredictedFit, Value: predictedFit},
		StringField{Key: FieldConfidence, Value: confidence},
		StringField{Key: FieldErrorKind, Value: errorKind},
	)
}

// EntityFields identifies the user and product a prediction was made for.
func EntityFields(userID, productID uint) []zap.Field {
	fields := make([]zap.Field, 0, 2)
	if userID != 0 {
		fields = append(fields, zap.Uint(FieldUserID, userID))
	}
	if productID != 0 {
		fields = append(fields, zap.Uint(FieldProductID, productID))
	}
	return fields
}
