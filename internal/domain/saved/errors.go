package saved

import "errors"

var (
	ErrNotSaved     = errors.New("item not saved")
	ErrAlreadySaved = errors.New("item already saved")
	ErrUnknownKind  = errors.New("unknown saved item kind")
)
