package domain

import "errors"

var (
	ErrSettingsNotFound = errors.New("settings row not found")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrUploadNotFound   = errors.New("uploaded file not found")
)
