package provider

import (
	"context"
)

// FakeGateway is a test double that returns predefined responses.
//
// Usage:
//
//	fake := &provider.FakeGateway{Responses: []string{"4"}}
//	// Each Complete call pops the next response.
type FakeGateway struct {
	// Responses is the queue of response texts, consumed in order. If
	// exhausted, a default "no more responses" reply is returned.
	Responses []string

	// Calls records every Request received, in order.
	Calls []Request

	// ErrorAt injects an error on the Nth call (1-based). 0 means disabled.
	ErrorAt int

	// ErrorValue is the error to inject when ErrorAt triggers.
	ErrorValue error

	callCount int
}

// Complete returns the next scripted response.
func (f *FakeGateway) Complete(_ context.Context, req Request) (string, error) {
	f.Calls = append(f.Calls, req)
	f.callCount++
	if f.ErrorAt > 0 && f.callCount == f.ErrorAt {
		return "", f.ErrorValue
	}
	return f.next(), nil
}

func (f *FakeGateway) next() string {
	if len(f.Responses) == 0 {
		return "no more responses"
	}
	resp := f.Responses[0]
	f.Responses = f.Responses[1:]
	return resp
}

// LastCall returns the most recent recorded request, or nil.
func (f *FakeGateway) LastCall() *Request {
	if len(f.Calls) == 0 {
		return nil
	}
	return &f.Calls[len(f.Calls)-1]
}

var _ Gateway = (*FakeGateway)(nil)
