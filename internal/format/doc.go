// Package format holds the audio format catalog and performs format
// negotiation: it maps encodings to the MIME strings used for capability
// queries, orders encodings by browser preference, and picks the first
// encoding the host reports playable.
package format
