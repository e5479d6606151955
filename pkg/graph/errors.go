package graph

import "errors"

var (
	ErrNodeNotFound      = errors.New("graph: node not found")
	ErrInputNotFound     = errors.New("graph: input not found")
	ErrOutputNotFound    = errors.New("graph: output not found")
	ErrIncompatibleTypes = errors.New("graph: incompatible port types")
	ErrNotConnectable    = errors.New("graph: input does not accept connections")
	ErrValueType         = errors.New("graph: value does not match port type")
)
