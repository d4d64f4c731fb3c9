// Package result represents the outcome of an operation that can
// predictably succeed or fail.
//
// A Result is one of four variants: Ok, Ok with a value, Bad, and Bad
// with a value. Failures always carry a Reason, a string label or an
// integer code the caller can branch on:
//
//	res, err := users.GetUserConfigFromEmail(ctx, email)
//	if err != nil {
//		return err // the lookup itself broke
//	}
//	if reason, bad := res.Reason(); bad && reason == result.ReasonNotFound {
//		// expected, handle locally
//	}
//
// Bad results are for failures the caller is meant to handle. Failures
// nobody can compensate for (a storage call that did not go through, a
// network error) are still returned as errors, and programming faults
// still panic.
//
// Go has no "undefined". Whether a Result carries a value is decided by
// the constructor that built it (OkWith, BadWith) or by the present flag
// of OkIf and BadIf, never by the value itself: a nil pointer passed to
// OkWith is a value.
package result
