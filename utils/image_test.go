package utils

import "testing"

func TestIsValidImageType(t *testing.T) {
	if !IsValidImageType("image/jpeg") {
		t.Fatalf("image/jpeg should be valid")
	}
	if !IsValidImageType("IMAGE/PNG") {
		t.Fatalf("content type match should be case-insensitive")
	}
	if IsValidImageType("application/pdf") {
		t.Fatalf("application/pdf should not be valid")
	}
	if IsValidImageType("") {
		t.Fatalf("empty content type should not be valid")
	}
}

func TestGetImageExtension(t *testing.T) {
	if ext := GetImageExtension("image/png"); ext != ".png" {
		t.Fatalf("expected .png, got %s", ext)
	}
	if ext := GetImageExtension("image/unknown"); ext != ".jpg" {
		t.Fatalf("expected fallback .jpg, got %s", ext)
	}
}
