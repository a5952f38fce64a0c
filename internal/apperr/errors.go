package apperr

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrBadStatus         = errors.New("bad response status")
	ErrNoVideoStream     = errors.New("no video stream")
	ErrUnsupportedFormat = errors.New("unsupported format")
)
