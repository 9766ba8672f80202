package repository

import "errors"

// Sentinel kinds for catalog store errors.
var (
	ErrInvalidProduct = errors.New("invalid arrow product")
	ErrInvalidChart   = errors.New("invalid spine chart")
	ErrInvalidRecord  = errors.New("invalid chronograph record")
	ErrLoadCatalog    = errors.New("load catalog failed")
)
