package ai

import (
	"errors"
	"testing"
)

func TestParseFieldsBareObject(t *testing.T) {
	fields, err := ParseFields(`{"name": "Jane Doe", "address": "Dhaka"}`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if fields["name"] != "Jane Doe" || fields["address"] != "Dhaka" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestParseFieldsSurroundedByProse(t *testing.T) {
	raw := "Here you go:\n{\"name\": \"Jane Doe\", \"blood group\": \"Not Provided\"}\nLet me know if you need anything else."
	fields, err := ParseFields(raw)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if fields["blood group"] != "Not Provided" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestParseFieldsMarkdownFenced(t *testing.T) {
	raw := "```json\n{\"name\": \"Jane Doe\"}\n```"
	fields, err := ParseFields(raw)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if fields["name"] != "Jane Doe" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestParseFieldsNoBraceSpan(t *testing.T) {
	_, err := ParseFields("I could not read the document, sorry.")
	if err == nil {
		t.Fatalf("expected error for reply without JSON")
	}
	if !errors.Is(err, ErrNoJSONObject) {
		t.Fatalf("expected ErrNoJSONObject, got %v", err)
	}
}

func TestParseFieldsMalformed(t *testing.T) {
	_, err := ParseFields(`result: {"name": "Jane Doe",}`)
	if err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
	if !errors.Is(err, ErrMalformedJSON) {
		t.Fatalf("expected ErrMalformedJSON, got %v", err)
	}
}

func TestParseFieldsEmptyInput(t *testing.T) {
	if _, err := ParseFields(""); !errors.Is(err, ErrNoJSONObject) {
		t.Fatalf("expected ErrNoJSONObject, got %v", err)
	}
}
