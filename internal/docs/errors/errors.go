// Package errors provides sentinel errors for content discovery. They are
// attached as causes of classified docs errors so callers can match them with
// errors.Is.
package errors

import "errors"

var (
	// ErrContentDirNotFound indicates the configured content directory does not exist.
	ErrContentDirNotFound = errors.New("content directory not found")

	// ErrContentWalkFailed indicates filesystem traversal of the content directory failed.
	ErrContentWalkFailed = errors.New("content directory walk failed")

	// ErrFileReadFailed indicates reading a discovered document failed.
	ErrFileReadFailed = errors.New("document read failed")

	// ErrInvalidFrontmatter indicates a document's frontmatter could not be parsed.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")

	// ErrDuplicateSlug indicates two documents resolve to the same slug.
	ErrDuplicateSlug = errors.New("duplicate document slug")
)
