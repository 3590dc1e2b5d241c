package models

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidArgument = errors.New("invalid arguments")

	// Upload intake failures, in the order the submission chain checks them.
	ErrUnauthorized      = errors.New("authentication required")
	ErrCaptchaFailed     = errors.New("captcha verification failed")
	ErrMissingFile       = errors.New("no file provided")
	ErrUnsupportedFormat = errors.New("unsupported video format")
	ErrFileTooLarge      = errors.New("file exceeds maximum size")
	ErrStorageFailed     = errors.New("storage failed")
)
