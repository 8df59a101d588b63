package config

import "github.com/m-mizutani/goerr/v2"

var (
	ErrInvalidConfig  = goerr.New("invalid configuration")
	ErrInvalidCatalog = goerr.New("invalid catalog")
)

// Context keys for error values
const (
	CatalogPathKey = "catalog_path"
	BackendKey     = "backend"
)
