// Package errorpage is the static status-code-to-HTML-body table the
// connection state machine uses as the body of every error response it
// sends.
package errorpage

import "fmt"

const template = "<html><head><title>%d %s</title></head><body><h1>%d %s</h1>%s</body></html>"

var reasons = map[int]string{
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	407: "Proxy Authentication Required",
	500: "Internal Server Error",
	501: "Not Implemented",
	503: "Service Unavailable",
	505: "HTTP Version Not Supported",
}

// Get returns the default error page body for status. Unknown codes return
// an empty string, matching the source behavior of returning no body for a
// status it has no template for.
func Get(status int) string {
	reason, ok := reasons[status]
	if !ok {
		return ""
	}
	return fmt.Sprintf(template, status, reason, status, reason, "")
}

// WithExtraMessage returns the default error page for status with an extra
// paragraph appended inside the body, e.g. a specific reason the caller
// wants surfaced beyond the generic reason phrase.
func WithExtraMessage(status int, msg string) string {
	reason, ok := reasons[status]
	if !ok {
		return ""
	}
	extra := ""
	if msg != "" {
		extra = fmt.Sprintf("<p>%s</p>", msg)
	}
	return fmt.Sprintf(template, status, reason, status, reason, extra)
}
