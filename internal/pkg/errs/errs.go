// Package errs wraps cockroachdb/errors with the small surface this
// codebase needs: stack-carrying wrap, sentinel creation, and marking an
// internal error with a public sentinel for errors.Is matching.
package errs

import (
	cr "github.com/cockroachdb/errors"
)

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func New(msg string) error {
	return cr.New(msg)
}

// Mark attaches markErr as an identity of err: errors.Is(result, markErr)
// holds while the original cause and stack stay intact.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}
