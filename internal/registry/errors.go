package registry

import "errors"

var (
	ErrFetchFailed  = errors.New("fetch file list failed")
	ErrUploadFailed = errors.New("upload failed")
	ErrToggleFailed = errors.New("toggle used failed")
	ErrDeleteFailed = errors.New("delete failed")
	ErrClosed       = errors.New("registry closed")
	ErrNotFound     = errors.New("file not in registry")
)
