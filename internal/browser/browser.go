// Package browser classifies the host environment from its identification
// strings. Classification is a pure function of the vendor and user-agent
// strings so it can be driven from navigator values on wasm or faked in tests.
package browser

import "strings"

// Browser identifies a known browser family.
type Browser string

// Known browser families. Unknown means the strings matched nothing.
const (
	Chrome   Browser = "chrome"
	Firefox  Browser = "firefox"
	Opera    Browser = "opera"
	Safari   Browser = "safari"
	Explorer Browser = "explorer"
	Edge     Browser = "edge"
	Unknown  Browser = ""
)

// Detect returns the browser family for the given identification strings.
//
// The checks form a fixed priority chain and the first match wins:
// Opera is checked before Chrome because Opera ships a Chrome-like
// user-agent; Chrome additionally requires the Google vendor string;
// Safari is last because almost everything on Apple platforms carries
// the Apple vendor string.
func Detect(vendor, userAgent string) Browser {
	ua := strings.ToLower(userAgent)
	v := strings.ToLower(vendor)

	opera := strings.Contains(ua, "opr/") || strings.Contains(ua, "opera")

	switch {
	case opera:
		return Opera
	case strings.Contains(ua, "chrome") && strings.Contains(v, "google"):
		return Chrome
	case strings.Contains(ua, "firefox"):
		return Firefox
	case strings.Contains(ua, "msie"):
		return Explorer
	case strings.Contains(ua, "edge"):
		return Edge
	case strings.Contains(v, "apple"):
		return Safari
	}
	return Unknown
}
