package entity

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateCode = errors.New("duplicate redirect code")
)
