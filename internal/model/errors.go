package model

import (
	"errors"
	"fmt"
)

// Kind classifies curation failures.
type Kind int

const (
	KindIO Kind = iota + 1
	KindConfigInvalid
	KindPathNotFound
	KindParse
	KindSerialization
	// KindCorrupted is reserved for an unrecoverable memory document state.
	KindCorrupted
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io failure"
	case KindConfigInvalid:
		return "invalid config"
	case KindPathNotFound:
		return "path not found"
	case KindParse:
		return "parse failure"
	case KindSerialization:
		return "serialization failure"
	case KindCorrupted:
		return "memory document corrupted"
	default:
		return "unknown"
	}
}

// Error is a classified curation error carrying the failing operation and path.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

// Errorf builds an *Error whose cause is formatted like fmt.Errorf.
func Errorf(kind Kind, op, path, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsRecoverable reports whether a caller could retry with adjusted input.
// Missing paths, parse failures and corruption qualify.
func IsRecoverable(err error) bool {
	switch KindOf(err) {
	case KindPathNotFound, KindParse, KindCorrupted:
		return true
	}
	return false
}
