package services

import "errors"

var (
	// ErrLatestVersion is returned when pruning reaches a version that is
	// still the latest of its chain.
	ErrLatestVersion = errors.New("attachment version is the latest")
	// ErrStaleLatest means the latest row changed under a Put.
	ErrStaleLatest = errors.New("latest attachment version changed concurrently")
	// ErrInvalidMaxVersions is returned by Prune for maxVersions < 1.
	ErrInvalidMaxVersions = errors.New("maxVersions must be at least 1")
	// ErrEmptyFilename rejects uploads without a file name.
	ErrEmptyFilename = errors.New("filename is required")
)
