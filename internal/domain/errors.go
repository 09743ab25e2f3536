package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidStyle = errors.New("invalid style")
	ErrInvalidImage = errors.New("invalid image")
	ErrConflict     = errors.New("conflicting status transition")
	ErrStorage      = errors.New("storage failure")
	ErrTransform    = errors.New("transform failure")
)
