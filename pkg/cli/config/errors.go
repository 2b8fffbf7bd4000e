package config

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrInvalidAppConfig marks a rejected app config TOML file
	ErrInvalidAppConfig = goerr.New("invalid app config")
)
