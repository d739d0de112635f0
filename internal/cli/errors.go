package cli

import "errors"

// ErrUsage matches every error caused by bad flags, settings or inputs.
// main exits with status 2 for these.
var ErrUsage = errors.New("cli usage error")

// usageError carries a message meant to be shown to the user as is.
type usageError struct {
	msg string
}

func newUsageError(msg string) error {
	return usageError{msg: msg}
}

func (e usageError) Error() string { return e.msg }

func (e usageError) Is(target error) bool { return target == ErrUsage }
