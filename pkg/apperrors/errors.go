package apperrors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrUnknownFlavor      = errors.New("unknown database flavor")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrTableGroupNotFound = errors.New("table group not found")
	ErrRunAlreadyExists   = errors.New("profiling run already exists")
	ErrTemplateNotFound   = errors.New("template not found")
	ErrNoColumnsProfiled  = errors.New("no columns could be profiled")
)
