package stream

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Protocol event lines, matched verbatim including the terminating newline.
// The comparison is deliberately exact rather than a relaxed prefix check:
// it mirrors the protocol's actual framing.
const (
	keepAliveLine = "event: keep-alive\n"
	putLine       = "event: put\n"
)

// Decode classifies one protocol frame: the event line as returned by
// LineFramer.NextLine and the payload from the same read cycle.
//
// An empty event line means no frame is available this cycle; Decode returns
// (nil, nil) and the caller waits for more bytes. A put frame whose payload
// does not parse to a JSON object is dropped with an error; the caller
// reports it as a diagnostic and keeps listening.
func Decode(eventLine, payload []byte) (*Event, error) {
	if len(eventLine) == 0 {
		return nil, nil
	}

	switch string(eventLine) {
	case keepAliveLine:
		// Keep-alive carries no semantic payload; whatever arrived with
		// it is ignored.
		return &Event{Kind: KindKeepAlive}, nil

	case putLine:
		doc, err := decodePut(payload)
		if err != nil {
			return nil, err
		}
		return &Event{Kind: KindPut, Document: doc}, nil

	default:
		return &Event{Kind: KindUnknown, RawName: string(trimValue(eventLine))}, nil
	}
}

// decodePut strips the payload's key prefix and parses the remainder as an
// object-rooted JSON document.
func decodePut(payload []byte) (map[string]any, error) {
	value := trimValue(payload)

	var doc map[string]any
	if err := json.Unmarshal(value, &doc); err != nil {
		return nil, fmt.Errorf("malformed put payload %q: %w", value, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("malformed put payload %q: null document", value)
	}

	return doc, nil
}

// trimValue extracts the value of a "key: value" line: everything after the
// first ':', with surrounding whitespace trimmed. When no ':' is present,
// or the colon is the first byte, the value is empty.
func trimValue(line []byte) []byte {
	var value []byte

	index := bytes.IndexByte(line, ':')
	if index > 0 {
		value = line[index+1:]
	}

	return bytes.TrimSpace(value)
}
