// Package dberr defines the three failure classes of a browsing session:
// connecting, reflecting the catalog, and reading sample rows.
package dberr

import (
	"errors"
	"fmt"
)

// ConnectionError means the data source could not be reached or opened.
// It is fatal at startup.
type ConnectionError struct {
	Driver string
	Target string // redacted DSN
	Err    error
}

func (e *ConnectionError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("connect %s: %v", e.Driver, e.Err)
	}
	return fmt.Sprintf("connect %s (%s): %v", e.Driver, e.Target, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ReflectionError means the catalog could not be read. It is fatal at startup.
type ReflectionError struct {
	Op  string
	Err error
}

func (e *ReflectionError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("reflect schema: %v", e.Err)
	}
	return fmt.Sprintf("reflect schema: %s: %v", e.Op, e.Err)
}

func (e *ReflectionError) Unwrap() error { return e.Err }

// QueryError means a sample read failed. It is reported to the user and the
// session keeps going.
type QueryError struct {
	Table string
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("sample %s: %v", e.Table, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// IsConnection reports whether err wraps a ConnectionError
func IsConnection(err error) bool {
	var target *ConnectionError
	return errors.As(err, &target)
}

// IsReflection reports whether err wraps a ReflectionError
func IsReflection(err error) bool {
	var target *ReflectionError
	return errors.As(err, &target)
}

// IsQuery reports whether err wraps a QueryError
func IsQuery(err error) bool {
	var target *QueryError
	return errors.As(err, &target)
}
