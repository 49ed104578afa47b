package ocr

import (
	"bytes"
	"errors"
)

// Validation errors; all of them are client faults (400) and security
// relevant enough to land in the security event log.
var (
	ErrTooLarge          = errors.New("image exceeds the size limit")
	ErrUnknownFormat     = errors.New("unsupported or unrecognized image format")
	ErrSuspiciousContent = errors.New("image contains embedded script content")
)

type signature struct {
	mime   string
	prefix []byte
}

var signatures = []signature{
	{"image/jpeg", []byte{0xFF, 0xD8, 0xFF}},
	{"image/png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	{"image/webp", []byte("RIFF")}, // verified further below
	{"application/pdf", []byte("%PDF")},
}

// script payloads that have no business inside an image
var scriptPatterns = [][]byte{
	[]byte("<script"),
	[]byte("<?php"),
	[]byte("javascript:"),
	[]byte("eval("),
	[]byte("onerror="),
	[]byte("onload="),
}

// DetectFormat sniffs the magic bytes and returns the mime type.
func DetectFormat(data []byte) (string, bool) {
	for _, sig := range signatures {
		if !bytes.HasPrefix(data, sig.prefix) {
			continue
		}
		if sig.mime == "image/webp" {
			if len(data) < 12 || !bytes.Equal(data[8:12], []byte("WEBP")) {
				continue
			}
		}
		return sig.mime, true
	}
	return "", false
}

// ValidateImage runs the full pre-flight: size cap, magic-byte sniff and
// embedded-script scan. It returns the detected mime type; no external
// service is contacted until this passes.
func ValidateImage(data []byte, maxBytes int64) (string, error) {
	if int64(len(data)) > maxBytes {
		return "", ErrTooLarge
	}
	mime, ok := DetectFormat(data)
	if !ok {
		return "", ErrUnknownFormat
	}

	lower := bytes.ToLower(data)
	for _, p := range scriptPatterns {
		if bytes.Contains(lower, p) {
			return mime, ErrSuspiciousContent
		}
	}
	return mime, nil
}
