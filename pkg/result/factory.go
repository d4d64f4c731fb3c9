package result

const (
	forbiddenLabel        = "FORBIDDEN"
	notAuthorizedLabel    = "NOT_AUTHORIZED"
	notFoundLabel         = "NOT_FOUND"
	validationFailedLabel = "VALIDATION_FAILED"
)

// Common failure reasons. The catalog constructors below build their
// reasons from fixed labels and do not read these variables.
var (
	// ReasonForbidden: the current actor does not have sufficient rights
	// to perform the operation.
	ReasonForbidden = Label(forbiddenLabel)

	// ReasonNotAuthorized: the current actor is not authenticated, or its
	// authentication cannot be verified.
	ReasonNotAuthorized = Label(notAuthorizedLabel)

	// ReasonNotFound: the requested entity does not exist.
	ReasonNotFound = Label(notFoundLabel)

	// ReasonValidationFailed: validation of the input has failed.
	ReasonValidationFailed = Label(validationFailedLabel)
)

// Factory builds failed Results that share a single Reason.
//
//	var errUnknownMailbox = result.MakeFactory[string](result.Label("UNKNOWN_MAILBOX"))
//
//	return errUnknownMailbox.With(name), nil
type Factory[T any] struct {
	reason Reason
}

func MakeFactory[T any](reason Reason) Factory[T] {
	return Factory[T]{reason: reason}
}

func (f Factory[T]) Reason() Reason {
	return f.reason
}

func (f Factory[T]) Bad() Result[T] {
	return Bad[T](f.reason)
}

func (f Factory[T]) With(value T) Result[T] {
	return BadWith(f.reason, value)
}

func (f Factory[T]) If(value T, present bool) Result[T] {
	return BadIf(f.reason, value, present)
}

func Forbidden[T any]() Result[T] {
	return MakeFactory[T](Label(forbiddenLabel)).Bad()
}

func ForbiddenWith[T any](value T) Result[T] {
	return MakeFactory[T](Label(forbiddenLabel)).With(value)
}

func NotAuthorized[T any]() Result[T] {
	return MakeFactory[T](Label(notAuthorizedLabel)).Bad()
}

func NotAuthorizedWith[T any](value T) Result[T] {
	return MakeFactory[T](Label(notAuthorizedLabel)).With(value)
}

func NotFound[T any]() Result[T] {
	return MakeFactory[T](Label(notFoundLabel)).Bad()
}

func NotFoundWith[T any](value T) Result[T] {
	return MakeFactory[T](Label(notFoundLabel)).With(value)
}

func ValidationFailed[T any]() Result[T] {
	return MakeFactory[T](Label(validationFailedLabel)).Bad()
}

func ValidationFailedWith[T any](value T) Result[T] {
	return MakeFactory[T](Label(validationFailedLabel)).With(value)
}
