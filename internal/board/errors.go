package board

import "errors"

var (
	// ErrInvalidSoundName is returned when a sound spec has no name.
	ErrInvalidSoundName = errors.New("sound spec missing name")
	// ErrSoundNotFound is returned when no registered sound matches a
	// name.
	ErrSoundNotFound = errors.New("sound not found")
	// ErrInvalidAttribute is returned by the strict attribute validator.
	ErrInvalidAttribute = errors.New("invalid sound attribute")
	// ErrNoDriver is returned when a board is constructed without a
	// media driver.
	ErrNoDriver = errors.New("no media driver")
	// ErrDestroyed is returned internally once a board has been torn
	// down.
	ErrDestroyed = errors.New("board destroyed")
	// ErrPrepareFailed is observed by waiters when the preparation run
	// they were coalesced onto failed.
	ErrPrepareFailed = errors.New("sound preparation failed")
	// ErrWatcherStopped is returned when starting a watcher that has
	// already been stopped.
	ErrWatcherStopped = errors.New("source watcher stopped")
)
