package gvas

import "github.com/pkg/errors"

var (
	ErrInvalidMagic      = errors.New("not a GVAS save")
	ErrMalformedProperty = errors.New("malformed property")
	ErrNotFound          = errors.New("property not found")
	ErrTypeMismatch      = errors.New("property type mismatch")
)
