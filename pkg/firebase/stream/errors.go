package stream

import "errors"

var (
	// ErrAlreadyOpen is returned when Open is called while a previous open
	// is still connecting or streaming. That is a caller error, not a
	// protocol event: Close the session first.
	ErrAlreadyOpen = errors.New("stream session already open")

	// ErrTooManyRedirects is reported when the server bounces the stream
	// through more redirect hops than the session allows.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrTooManyRetries is returned by Supervisor.Run when its backoff
	// policy stops yielding delays.
	ErrTooManyRetries = errors.New("reconnect attempts exhausted")
)
