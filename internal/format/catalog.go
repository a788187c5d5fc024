package format

import (
	"fmt"

	"github.com/jmylchreest/soundboard/internal/browser"
)

// Encoding identifies an audio container/codec by its file extension.
type Encoding string

// Encodings known to the catalog.
const (
	OGG  Encoding = "ogg"
	MP3  Encoding = "mp3"
	WAV  Encoding = "wav"
	AAC  Encoding = "aac"
	M4A  Encoding = "m4a"
	FLAC Encoding = "flac"
)

// capabilityQueries maps each encoding to the MIME string handed to the
// host's capability query. The codec parameters match what browsers
// answer "probably" for.
var capabilityQueries = map[Encoding]string{
	OGG:  `audio/ogg; codecs="vorbis"`,
	MP3:  `audio/mpeg;`,
	WAV:  `audio/wav; codecs="1"`,
	AAC:  `audio/aac;`,
	M4A:  `audio/x-m4a;`,
	FLAC: `audio/flac;`,
}

// preferences orders encodings per browser family, best candidate first.
// Browsers are asked in their own preference order so negotiation favors
// quality and compatibility over an arbitrary global order.
var preferences = map[browser.Browser][]Encoding{
	browser.Chrome:   {OGG, MP3, WAV, FLAC, AAC},
	browser.Opera:    {OGG, MP3, WAV, FLAC, AAC},
	browser.Firefox:  {OGG, MP3, WAV, FLAC},
	browser.Safari:   {MP3, AAC, M4A, WAV},
	browser.Explorer: {MP3, AAC, M4A, WAV},
	browser.Edge:     {MP3, AAC, M4A, WAV, OGG},
}

// allEncodings is the fallback order for unclassified hosts.
var allEncodings = []Encoding{OGG, MP3, WAV, AAC, M4A, FLAC}

// CapabilityQuerier answers whether the host can play a MIME-typed
// encoding. An empty answer means no; anything else ("maybe", "probably")
// counts as playable.
type CapabilityQuerier interface {
	CanPlayType(mime string) string
}

// MIMEQuery returns the capability query string for an encoding.
func MIMEQuery(enc Encoding) (string, error) {
	q, ok := capabilityQueries[enc]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, enc)
	}
	return q, nil
}

// SourceMIME returns the MIME string recorded on a generated source.
func SourceMIME(enc Encoding) string {
	return "audio/" + string(enc)
}

// Preferred returns the encoding preference order for a browser family.
// Unknown browsers get the full catalog in a fixed order.
func Preferred(b browser.Browser) []Encoding {
	if order, ok := preferences[b]; ok {
		return order
	}
	return allEncodings
}

// CanPlay reports whether the host can play a known encoding. It never
// fails for a catalog encoding; a host that cannot evaluate the query
// simply counts as unable to play it.
func CanPlay(caps CapabilityQuerier, enc Encoding) bool {
	q, err := MIMEQuery(enc)
	if err != nil {
		return false
	}
	return caps.CanPlayType(q) != ""
}

// FirstPlayable scans order left to right and returns the first encoding
// the host reports playable.
func FirstPlayable(caps CapabilityQuerier, order []Encoding) (Encoding, error) {
	for _, enc := range order {
		if CanPlay(caps, enc) {
			return enc, nil
		}
	}
	return "", ErrNoPlayableFormat
}

// IsValidExtension reports whether ext names a catalog encoding.
func IsValidExtension(ext string) bool {
	_, ok := capabilityQueries[Encoding(ext)]
	return ok
}

// ValidateExtension is the strict form of IsValidExtension.
func ValidateExtension(ext string) error {
	if !IsValidExtension(ext) {
		return fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
	}
	return nil
}
