package validation

import (
	"errors"
	"fmt"
)

// ErrRejected indicates a candidate is not a recognizable ESG self-assessment report.
var ErrRejected = errors.New("not an esg self-assessment report")

// Reason classifies why a candidate was rejected.
type Reason string

const (
	ReasonExtension Reason = "extension"
	ReasonMediaType Reason = "media_type"
	ReasonParse     Reason = "parse"
	ReasonNoKeyword Reason = "no_keyword"
	ReasonCanceled  Reason = "canceled"
)

// RejectError carries the rejection reason and, for parse failures and
// cancellation, the underlying cause. It matches ErrRejected with errors.Is.
type RejectError struct {
	Reason Reason
	Err    error
}

func (e *RejectError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", ErrRejected, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s (%s)", ErrRejected, e.Reason)
}

func (e *RejectError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrRejected, e.Err}
	}
	return []error{ErrRejected}
}

// ReasonOf returns the rejection reason carried by err, or "" if err is not a RejectError.
func ReasonOf(err error) Reason {
	var re *RejectError
	if errors.As(err, &re) {
		return re.Reason
	}
	return ""
}

func reject(reason Reason, err error) error {
	return &RejectError{Reason: reason, Err: err}
}
