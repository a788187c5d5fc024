// Package board implements the soundboard: a registry of named sounds,
// an idempotent coalesced preparation pipeline that binds each sound to a
// media element with one negotiated source, and a playback facade whose
// operations log failures instead of returning them.
package board
