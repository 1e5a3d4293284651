package store

import (
	"errors"
)

var (
	ErrGeneral     = errors.New("an error occurred on the server during your request")
	ErrKeyNotFound = errors.New("there is no value stored")
)
