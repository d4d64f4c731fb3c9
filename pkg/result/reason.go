package result

import (
	"strconv"

	"golang.org/x/exp/constraints"
)

// Reason describes why an operation failed. It is either a string label
// or an integer code, and is comparable with ==.
type Reason struct {
	label  string
	code   int64
	isCode bool
}

// Label returns a Reason identified by a string.
func Label(label string) Reason {
	return Reason{label: label}
}

// Code returns a Reason identified by an integer. Codes are stored as
// int64: unsigned values above math.MaxInt64 wrap around and collide with
// negative codes, so keep codes within the int64 range.
func Code[N constraints.Integer](code N) Reason {
	return Reason{code: int64(code), isCode: true}
}

func (r Reason) IsCode() bool {
	return r.isCode
}

func (r Reason) Label() (string, bool) {
	return r.label, !r.isCode
}

func (r Reason) Code() (int64, bool) {
	return r.code, r.isCode
}

func (r Reason) String() string {
	if r.isCode {
		return strconv.FormatInt(r.code, 10)
	}

	return r.label
}
