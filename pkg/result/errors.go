package result

import (
	"errors"

	"github.com/zeebo/errs"
)

// Class tags errors produced by escalating a failed Result.
var Class = errs.Class("result")

// ReasonError is the error behind an escalated failure.
type ReasonError struct {
	Reason Reason
}

func (e *ReasonError) Error() string {
	return e.Reason.String()
}

// Err returns nil for successful Results. For failures it returns an
// error of Class wrapping a *ReasonError, for callers that decide the
// failure can no longer be handled where it is.
func (r Result[T]) Err() error {
	reason, bad := r.Reason()
	if !bad {
		return nil
	}

	return Class.Wrap(&ReasonError{Reason: reason})
}

// ReasonOf finds the Reason of an escalated failure in err's chain.
func ReasonOf(err error) (Reason, bool) {
	var re *ReasonError
	if errors.As(err, &re) {
		return re.Reason, true
	}

	return Reason{}, false
}
