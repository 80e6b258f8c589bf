// Package kvserr defines the two error categories the storage engine can
// produce: I/O errors and conversion errors. Nothing is retried and nothing
// is swallowed - every error is returned to the caller unchanged.
package kvserr

import (
	"errors"
	"fmt"
)

// ErrDirectoryNotFound is returned by engine.Open when data_dir does not
// exist or is not a directory.
var ErrDirectoryNotFound = errors.New("kvserr: data directory not found")

// IOError wraps a failure to open, create, read, write, seek, truncate,
// enumerate, or remove a file.
type IOError struct {
	Op   string // e.g. "open wal", "create sstable", "truncate wal"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("kvserr: io: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("kvserr: io: %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// IO wraps err as an IOError. Returns nil if err is nil, so it is safe to
// use as a one-line return-wrapper at call sites.
func IO(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}

// ConversionError wraps a failure to interpret bytes read from disk: a key
// or value that is not valid UTF-8, or a tombstone byte outside {0, 1}.
type ConversionError struct {
	Reason string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("kvserr: conversion: %s", e.Reason)
}

// Conversion builds a ConversionError from a formatted reason.
func Conversion(format string, args ...any) error {
	return &ConversionError{Reason: fmt.Sprintf(format, args...)}
}
