package gallery

import (
	"errors"
	"fmt"
)

// ErrEmptyGallery is returned when a labeled folder yields no usable labeled
// examples at all. A gallery holding only exclusion-class examples is permitted.
var ErrEmptyGallery = errors.New("gallery contains no labeled examples")

// NamingViolationError indicates a labeled filename that does not follow the
// <label>_<suffix>.<ext> convention.
type NamingViolationError struct {
	Path string
}

func (e *NamingViolationError) Error() string {
	return fmt.Sprintf("invalid labeled filename %q: expected <label>_<suffix>.<ext>", e.Path)
}

// FaceCountViolationError indicates a labeled image that does not contain
// exactly one detectable face.
type FaceCountViolationError struct {
	Path  string
	Faces int
}

func (e *FaceCountViolationError) Error() string {
	if e.Faces == 0 {
		return fmt.Sprintf("no face detected in labeled image %q", e.Path)
	}
	return fmt.Sprintf("%d faces detected in labeled image %q: expected exactly one", e.Faces, e.Path)
}

// UnreadableImageError indicates a corrupt or undecodable image file. During
// batch classification it is isolated to the offending image.
type UnreadableImageError struct {
	Path string
	Err  error
}

func (e *UnreadableImageError) Error() string {
	return fmt.Sprintf("unreadable image %q: %v", e.Path, e.Err)
}

func (e *UnreadableImageError) Unwrap() error {
	return e.Err
}

// DistinctFolderError indicates that the raw and labeled folders resolve to
// the same location, which would make the export self-referential.
type DistinctFolderError struct {
	Folder string
}

func (e *DistinctFolderError) Error() string {
	return fmt.Sprintf("raw and labeled folders must be distinct, both are %q", e.Folder)
}
