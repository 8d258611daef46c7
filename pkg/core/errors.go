package core

import (
	"errors"
)

var (
	// ErrItemNotFound is returned by stores when no item has the given id.
	ErrItemNotFound = errors.New("schedkit: schedule item not found")
)
