package upstream

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// Placeholders used in log output. Credentials must never reach a log sink,
// even when the URL cannot be parsed.
const (
	redactedValue     = "xxxxx"
	invalidURLDisplay = "[invalid url]"
)

var credentialParamRegex = regexp.MustCompile(`(?i)(password|passwd|token|secret|key|auth|identity)`)

var sensitiveHeaders = []string{
	"Authorization",
	"Cookie",
	"Set-Cookie",
	"X-Api-Key",
}

// RedactURL returns a form of rawURL safe to log: user-info and query
// parameters with credential-like names are replaced with a fixed
// placeholder. A URL that cannot be parsed yields a fixed safe string
// instead of an error.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return invalidURLDisplay
	}
	if u.User != nil {
		u.User = url.User(redactedValue)
	}
	q := u.Query()
	changed := false
	for name := range q {
		if credentialParamRegex.MatchString(name) {
			q.Set(name, redactedValue)
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// RedactHeaders returns a loggable copy of the headers with sensitive values
// replaced.
func RedactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		redacted := false
		for _, s := range sensitiveHeaders {
			if strings.EqualFold(name, s) {
				redacted = true
				break
			}
		}
		if redacted {
			out[name] = redactedValue
		} else {
			out[name] = strings.Join(values, ", ")
		}
	}
	return out
}
