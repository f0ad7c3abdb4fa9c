package bbmap

import "errors"

var (
	ErrInvalidRange    = errors.New("invalid range")
	ErrConflict        = errors.New("overlapping blocks")
	ErrNotImplemented  = errors.New("not implemented")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoPlugin        = errors.New("no such plugin")
	ErrPluginType      = errors.New("plugin type mismatch")
)
