package domain

import "errors"

var (
	ErrScenarioNotFound   = errors.New("scenario not found")
	ErrNoRecommendedSpend = errors.New("no recommended spend to rescale")
	ErrInvalidBudget      = errors.New("budget must not be negative")
	ErrInvalidChange      = errors.New("invalid simulation change")
	ErrUnknownSource      = errors.New("unknown sku data source")
	ErrUnknownReport      = errors.New("unknown report")
	ErrStorageDisabled    = errors.New("object storage is not configured")
	ErrSKUNotFound        = errors.New("sku not found")
)
