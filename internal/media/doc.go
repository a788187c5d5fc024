// Package media defines the host media-element boundary: a Driver that
// creates playable elements and answers capability queries, and an Element
// that owns one sound's playback state. The native driver plays through the
// beep library; on js/wasm builds an HTML <audio> driver is available.
package media
