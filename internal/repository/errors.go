package repository

import "errors"

var (
	ErrSurveyNotFound    = errors.New("survey not found")
	ErrExportJobNotFound = errors.New("export job not found")
	ErrCacheMiss         = errors.New("cache miss")
)
