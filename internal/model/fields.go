package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// asString accepts only string values.
func asString(field string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", ErrInvalidFieldValue.Wrap(fmt.Errorf("%s expects a string, got %T", field, value))
	}
	return s, nil
}

// asNumber accepts Go numeric types, json.Number and numeric strings.
// An empty string reads as zero, the same as a cleared number input.
func asNumber(field string, value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, ErrInvalidFieldValue.Wrap(fmt.Errorf("%s: %w", field, err))
		}
		return f, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, ErrInvalidFieldValue.Wrap(fmt.Errorf("%s: %q is not a number", field, v))
		}
		return f, nil
	default:
		return 0, ErrInvalidFieldValue.Wrap(fmt.Errorf("%s expects a number, got %T", field, value))
	}
}

func unknownField(field string) error {
	return ErrUnknownField.Wrap(fmt.Errorf("%q", field))
}
