package core

import (
	"errors"
)

var (
	ErrProgressOutOfRange = errors.New("progress value must be between 0 and 1")
	ErrInvalidMargin      = errors.New("inner margin must not be negative")
	ErrInvalidGeometry    = errors.New("invalid geometry")
	ErrGeometryNotFound   = errors.New("geometry not found")
	ErrMaterialNotFound   = errors.New("material not found")
	ErrSystemShutdown     = errors.New("system already shut down")
	ErrUnknownIdentifier  = errors.New("unknown identifier")
	ErrUnknown            = errors.New("unknown")
)
