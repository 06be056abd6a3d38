package book

import "errors"

var (
	// ErrPageNotFound is returned when a page ID is not part of the session.
	ErrPageNotFound = errors.New("page not found")

	// ErrUnsupportedImage is returned when ingested bytes are not a PNG or JPEG image.
	ErrUnsupportedImage = errors.New("unsupported image: only PNG and JPEG pages are accepted")
)
