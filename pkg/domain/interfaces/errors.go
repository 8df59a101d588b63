package interfaces

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors shared by every repository backend
var (
	ErrAlreadyExists = goerr.New("already exists")
)
