package delivery

import "errors"

// Result is either Delivered(providerResponse) or Failed(reason).
type Result struct {
	delivered bool
	response  string
	err       error
}

// Delivered builds a successful result carrying the provider's response.
func Delivered(providerResponse string) Result {
	return Result{delivered: true, response: providerResponse}
}

// Failed builds a failed result. A nil reason is replaced with a generic one.
func Failed(reason error) Result {
	if reason == nil {
		reason = errors.New("delivery failed")
	}
	return Result{err: reason}
}

func (r Result) OK() bool { return r.delivered }

// Response is the provider response of a delivered result.
func (r Result) Response() string { return r.response }

// Err is the failure reason, nil when delivered.
func (r Result) Err() error { return r.err }
