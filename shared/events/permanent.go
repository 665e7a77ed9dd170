package events

import "errors"

// permanentError marks a handler failure that redelivery cannot fix.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return "permanent: " + e.err.Error()
}

func (e *permanentError) Unwrap() error {
	return e.err
}

// Permanent wraps err so subscribers dead-letter the message instead of
// redelivering it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent anywhere in its chain
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}
