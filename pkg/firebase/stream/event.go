// Package stream implements the Realtime Database streaming protocol: a
// long-lived HTTP event stream whose frames are decoded into typed change
// events and delivered to a Sink.
//
// Wire framing consumed, per
// https://firebase.google.com/docs/database/rest/retrieve-data:
//
//	event: put
//	data: {"path":"/users/42","data":{"name":"Ada"}}
//
// interleaved with "event: keep-alive" heartbeat frames.
package stream

// Kind discriminates decoded stream events.
type Kind int

const (
	// KindKeepAlive is a heartbeat frame with no semantic payload.
	KindKeepAlive Kind = iota

	// KindPut signals the value at a path changed; the event carries the
	// full data payload. The first put after opening a stream holds the
	// initial contents of the location.
	KindPut

	// KindUnknown is any event name this client does not recognize.
	// Forwarded as a diagnostic, never fatal.
	KindUnknown
)

// String returns the protocol name for the kind.
func (k Kind) String() string {
	switch k {
	case KindKeepAlive:
		return "keep-alive"
	case KindPut:
		return "put"
	default:
		return "unknown"
	}
}

// Event is one decoded stream frame. Exactly one variant is populated per
// decode: Document for KindPut, RawName for KindUnknown, neither for
// KindKeepAlive.
type Event struct {
	Kind Kind

	// Document is the parsed put payload, an object carrying the protocol's
	// "path" and "data" members. Nil unless Kind is KindPut.
	Document map[string]any

	// RawName is the unrecognized event name. Empty unless Kind is
	// KindUnknown.
	RawName string
}

// Sink receives decoded events and decode diagnostics from a Session.
// Implementations choose their own fan-out (direct handling, channels,
// observer lists); the session calls these from its single reader goroutine,
// so no callback ever races another from the same session.
type Sink interface {
	// OnKeepAlive is invoked for every heartbeat frame. Useful as a
	// liveness signal; see Watchdog.
	OnKeepAlive()

	// OnPut is invoked with the parsed document of every put frame.
	OnPut(document map[string]any)

	// OnUnknownEvent is invoked with the raw name of an unrecognized
	// event. Diagnostic only; the stream keeps going.
	OnUnknownEvent(rawName string)

	// OnDecodeError is invoked when a put payload could not be parsed.
	// The malformed frame is dropped and the stream keeps going.
	OnDecodeError(err error)
}

// NopSink is a Sink that ignores everything. Embed it to implement only the
// callbacks you care about.
type NopSink struct{}

func (NopSink) OnKeepAlive()          {}
func (NopSink) OnPut(map[string]any)  {}
func (NopSink) OnUnknownEvent(string) {}
func (NopSink) OnDecodeError(error)   {}
