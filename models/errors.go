package models

import "errors"

var (
	// ErrNotFound: referenced level, quest or content link does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidType: unrecognized quest type tag on a creation request.
	ErrInvalidType = errors.New("invalid quest type")
	// ErrSynthesis: model load/inference failed or returned a bad result shape.
	ErrSynthesis = errors.New("synthesis failed")
	// ErrAudioWrite: wav output could not be opened or written.
	ErrAudioWrite = errors.New("audio write failed")
	// ErrDuplicateContent: a concurrent first-time create lost a uniqueness
	// race; callers are expected to re-read the winning row.
	ErrDuplicateContent = errors.New("duplicate content")
	// ErrEmptySamples: nothing to encode.
	ErrEmptySamples = errors.New("empty sample sequence")
	// ErrQueueClosed: synthesis queue already shut down.
	ErrQueueClosed = errors.New("synthesis queue closed")
)
