package result

import "fmt"

// Kind identifies which of the four variants a Result is.
type Kind uint8

const (
	KindOk Kind = iota
	KindOkWithValue
	KindBad
	KindBadWithValue
)

func (k Kind) String() string {
	switch k {
	case KindOk:
		return "Ok"
	case KindOkWithValue:
		return "OkWithValue"
	case KindBad:
		return "Bad"
	case KindBadWithValue:
		return "BadWithValue"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Result is the outcome of an operation. Build it with one of the
// constructors; the zero Result is Ok.
type Result[T any] struct {
	kind   Kind
	value  T
	reason Reason
}

// Ok returns a successful Result without a value.
func Ok[T any]() Result[T] {
	return Result[T]{kind: KindOk}
}

// OkWith returns a successful Result carrying value.
func OkWith[T any](value T) Result[T] {
	return Result[T]{kind: KindOkWithValue, value: value}
}

// OkIf is OkWith when present is true and Ok otherwise.
func OkIf[T any](value T, present bool) Result[T] {
	if !present {
		return Ok[T]()
	}

	return OkWith(value)
}

// Bad returns a failed Result without a value.
func Bad[T any](reason Reason) Result[T] {
	return Result[T]{kind: KindBad, reason: reason}
}

// BadWith returns a failed Result carrying an auxiliary value, such as
// the offending input or a partial result.
func BadWith[T any](reason Reason, value T) Result[T] {
	return Result[T]{kind: KindBadWithValue, reason: reason, value: value}
}

// BadIf is BadWith when present is true and Bad otherwise.
func BadIf[T any](reason Reason, value T, present bool) Result[T] {
	if !present {
		return Bad[T](reason)
	}

	return BadWith(reason, value)
}

func (r Result[T]) Kind() Kind {
	return r.kind
}

func (r Result[T]) Success() bool {
	return r.kind == KindOk || r.kind == KindOkWithValue
}

func (r Result[T]) HasValue() bool {
	return r.kind == KindOkWithValue || r.kind == KindBadWithValue
}

// Value returns the carried value. The boolean is false, and the value
// is T's zero value, when the Result has none.
func (r Result[T]) Value() (T, bool) {
	if !r.HasValue() {
		var zero T
		return zero, false
	}

	return r.value, true
}

// Reason returns why the operation failed. The boolean is false for
// successful Results.
func (r Result[T]) Reason() (Reason, bool) {
	if r.Success() {
		return Reason{}, false
	}

	return r.reason, true
}

func (r Result[T]) String() string {
	switch r.kind {
	case KindOkWithValue:
		return fmt.Sprintf("Ok(%v)", r.value)
	case KindBad:
		return fmt.Sprintf("Bad(%s)", r.reason)
	case KindBadWithValue:
		return fmt.Sprintf("Bad(%s, %v)", r.reason, r.value)
	default:
		return "Ok"
	}
}

// Cases holds one handler per variant for Match.
type Cases[T, U any] struct {
	Ok      func() U
	OkWith  func(value T) U
	Bad     func(reason Reason) U
	BadWith func(reason Reason, value T) U
}

// Match calls the handler of r's variant and returns what it returns.
// It panics if that handler is nil.
func Match[T, U any](r Result[T], cases Cases[T, U]) U {
	switch r.kind {
	case KindOk:
		if cases.Ok != nil {
			return cases.Ok()
		}
	case KindOkWithValue:
		if cases.OkWith != nil {
			return cases.OkWith(r.value)
		}
	case KindBad:
		if cases.Bad != nil {
			return cases.Bad(r.reason)
		}
	case KindBadWithValue:
		if cases.BadWith != nil {
			return cases.BadWith(r.reason, r.value)
		}
	}

	panic(fmt.Sprintf("result: no case for %s", r.kind))
}
