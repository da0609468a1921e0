package firebase

import "strings"

// jsonExt is the document extension the Realtime Database REST API expects
// on every request path.
const jsonExt = ".json"

// Locator is the normalized request target for a database location: the
// database host joined with the path of interest. It is an immutable value;
// rebuild it with NewLocator to point somewhere else.
type Locator struct {
	base string
}

// NewLocator normalizes host and dbPath into a Locator. A trailing '/' is
// forced onto the host before the path is appended, so
// NewLocator("https://x.firebaseio.com", "users/42") and
// NewLocator("https://x.firebaseio.com/", "users/42") produce the same value.
func NewLocator(host, dbPath string) Locator {
	base := forceEndChar(strings.TrimSpace(host), '/')
	base += strings.TrimSpace(dbPath)
	return Locator{base: base}
}

// Render returns the full request URL for the locator with the given query
// string. The ".json" extension is appended unless the locator already ends
// with it, and the query gains a leading '?' unless the caller supplied one.
// An empty query yields the bare locator. Rendering is idempotent: feeding a
// rendered value back through the same rules changes nothing.
func (l Locator) Render(query string) string {
	dest := l.base

	// A destination shorter than the extension itself can never carry it;
	// the explicit length guard avoids a substring check on short paths.
	if len(dest) <= len(jsonExt) || dest[len(dest)-len(jsonExt):] != jsonExt {
		dest += jsonExt
	}

	if query != "" {
		dest += forceStartChar(query, '?')
	}

	return dest
}

// String returns the locator rendered without a query string.
func (l Locator) String() string {
	return l.Render("")
}

// forceEndChar appends end to s unless s already ends with it.
func forceEndChar(s string, end byte) string {
	if len(s) == 0 || s[len(s)-1] != end {
		return s + string(end)
	}
	return s
}

// forceStartChar prepends start to s unless s already begins with it.
func forceStartChar(s string, start byte) string {
	if len(s) > 0 && s[0] != start {
		return string(start) + s
	}
	return s
}
