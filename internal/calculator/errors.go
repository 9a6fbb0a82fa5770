package calculator

import "errors"

var (
	ErrEmptySeries      = errors.New("empty price series")
	ErrInvalidPeriod    = errors.New("period must be positive")
	ErrInsufficientData = errors.New("not enough data for calculation")
)
