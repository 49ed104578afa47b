package ocr

import (
	"bytes"
	"errors"
	"testing"
)

func jpegData(tail []byte) []byte {
	return append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, tail...)
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		mime string
		ok   bool
	}{
		{"jpeg", jpegData(nil), "image/jpeg", true},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, "image/png", true},
		{"webp", append([]byte("RIFF\x00\x00\x00\x00WEBP"), 0x00), "image/webp", true},
		{"riff but not webp", []byte("RIFF\x00\x00\x00\x00WAVEdata"), "", false},
		{"pdf", []byte("%PDF-1.7\n"), "application/pdf", true},
		{"plain text", []byte("hello"), "", false},
		{"empty", nil, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mime, ok := DetectFormat(tc.data)
			if ok != tc.ok || mime != tc.mime {
				t.Fatalf("DetectFormat = (%q, %v), want (%q, %v)", mime, ok, tc.mime, tc.ok)
			}
		})
	}
}

func TestValidateImageSizeCap(t *testing.T) {
	data := jpegData(bytes.Repeat([]byte{0x00}, 64))
	if _, err := ValidateImage(data, 16); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
}

func TestValidateImageUnknownFormat(t *testing.T) {
	if _, err := ValidateImage([]byte("GIF89a"), 1<<20); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestValidateImageScriptPatterns(t *testing.T) {
	payloads := [][]byte{
		[]byte("<SCRIPT>alert(1)</script>"),
		[]byte("<?php system($_GET['c']); ?>"),
		[]byte("javascript:void(0)"),
		[]byte("eval(atob('...'))"),
		[]byte("x onerror=alert(1)"),
	}
	for _, p := range payloads {
		data := jpegData(p)
		if _, err := ValidateImage(data, 1<<20); !errors.Is(err, ErrSuspiciousContent) {
			t.Fatalf("payload %q: err = %v, want ErrSuspiciousContent", p, err)
		}
	}
}

func TestValidateImageClean(t *testing.T) {
	data := jpegData(bytes.Repeat([]byte{0xAB}, 128))
	mime, err := ValidateImage(data, 1<<20)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if mime != "image/jpeg" {
		t.Fatalf("mime = %q, want image/jpeg", mime)
	}
}
