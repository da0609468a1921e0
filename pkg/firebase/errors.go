package firebase

import "errors"

var (
	// ErrNoFunctionHost indicates CallFunction was invoked on a client that
	// was not configured with a function host.
	ErrNoFunctionHost = errors.New("no function host configured")

	// ErrRequestFailed wraps non-2xx responses from the database REST API.
	ErrRequestFailed = errors.New("firebase request failed")
)
