package auth

import (
	"net/http"
	"sync"
)

// Info carries human-readable details attached to a Success or Fail
// outcome. The zero value is valid and means "no additional detail".
type Info struct {
	// Message is a short, human-readable description of the outcome,
	// suitable for logs and error responses.
	Message string

	// Status is the HTTP status a host should respond with when the
	// outcome is Fail. Zero means the host picks its default
	// (conventionally 401 Unauthorized).
	Status int
}

// Callbacks receives the outcome of one authentication attempt. A
// Strategy invokes exactly one of the three functions, exactly once,
// for every call to Authenticate.
//
// All three fields must be non-nil; invoking a nil field panics. Hosts
// that drive third-party strategies should wrap their callbacks with
// Once to contain double-report bugs.
type Callbacks struct {
	// Success reports an authenticated user. The user value is opaque
	// to the framework; it is whatever the application's resolver
	// returned.
	Success func(user any, info Info)

	// Fail reports that the request is not authenticated: credentials
	// were missing, malformed, or rejected.
	Fail func(info Info)

	// Error reports that authentication could not be decided because
	// of a fault: upstream verifier unreachable, malformed upstream
	// response, or a resolver error in the embedding application.
	Error func(err error)
}

// Strategy authenticates a single HTTP request and reports the outcome
// through cb. Implementations must be safe for concurrent use; one
// Strategy instance serves many requests.
type Strategy interface {
	// Name identifies the mechanism (e.g. "browserid"). Hosts use it
	// for logging and authentication challenges.
	Name() string

	// Authenticate examines r and invokes exactly one callback. It
	// must not write to any response writer and must not retain r or
	// cb after returning.
	Authenticate(r *http.Request, cb Callbacks)
}

// Once returns a copy of cb that delivers at most one outcome: the
// first invocation wins and later invocations are silently dropped.
// The returned Callbacks is safe for concurrent use.
func Once(cb Callbacks) Callbacks {
	var once sync.Once

	return Callbacks{
		Success: func(user any, info Info) {
			once.Do(func() { cb.Success(user, info) })
		},
		Fail: func(info Info) {
			once.Do(func() { cb.Fail(info) })
		},
		Error: func(err error) {
			once.Do(func() { cb.Error(err) })
		},
	}
}
