package gfxerr

import (
	"errors"
	"sync/atomic"
)

// last is written by whichever component failed most recently. Accessed
// atomically so the config watcher goroutine can report too.
var last atomic.Int64

// Set records code as the most recent failure and returns it, which allows
// `return gfxerr.Set(gfxerr.AllocationError)`.
func Set(code Code) Code {
	last.Store(int64(code))
	return code
}

// Report records the Code wrapped in err, if there is one, and returns err
// unchanged.
func Report(err error) error {
	var code Code
	if errors.As(err, &code) {
		Set(code)
	}

	return err
}

// Last returns the most recently recorded failure, or Success.
func Last() Code {
	return Code(last.Load())
}

// Reset clears the slot.
func Reset() {
	last.Store(int64(Success))
}
