package logging

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/exp/constraints"

	"github.com/Philanthropists/outcome/pkg/result"
)

func Time[S ~string](s S, t time.Time) Field {
	return zap.Time(string(s), t)
}

func Duration[S ~string](s S, t time.Duration) Field {
	return zap.Duration(string(s), t)
}

func Any[S ~string](s S, v any) Field {
	return zap.Any(string(s), v)
}

func Int[S ~string, T constraints.Signed](s S, v T) Field {
	return zap.Int64(string(s), int64(v))
}

func Uint[S ~string, T constraints.Unsigned](s S, v T) Field {
	return zap.Uint64(string(s), uint64(v))
}

func Float[S ~string, T constraints.Float](s S, v T) Field {
	return zap.Float64(string(s), float64(v))
}

func Error(err error) Field {
	return zap.Error(err)
}

func String[U, V ~string](s U, v V) Field {
	return zap.String(string(s), string(v))
}

// Reason logs labels as strings and codes as integers.
func Reason[S ~string](s S, r result.Reason) Field {
	if code, ok := r.Code(); ok {
		return zap.Int64(string(s), code)
	}

	return zap.String(string(s), r.String())
}

// Outcome logs the shape of a Result. The carried value is left out, it
// may hold user data.
func Outcome[S ~string, T any](s S, r result.Result[T]) Field {
	return zap.Object(string(s), zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		enc.AddBool("success", r.Success())
		enc.AddBool("has_value", r.HasValue())

		if reason, bad := r.Reason(); bad {
			if code, ok := reason.Code(); ok {
				enc.AddInt64("reason", code)
			} else {
				enc.AddString("reason", reason.String())
			}
		}

		return nil
	}))
}
