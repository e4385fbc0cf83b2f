package models

import "testing"

func allPopulated() map[string]string {
	return map[string]string{
		FieldName:        "Jane Doe",
		FieldFatherName:  "John Doe",
		FieldMotherName:  "Mary Doe",
		FieldDateOfBirth: "01 Jan 1990",
		FieldIDNumber:    "1234567890",
		FieldAddress:     "Dhaka",
		FieldBloodGroup:  "O+",
	}
}

func TestDeriveStatusCompleted(t *testing.T) {
	if got := DeriveStatus(allPopulated()); got != StatusCompleted {
		t.Fatalf("expected %q, got %q", StatusCompleted, got)
	}
}

func TestDeriveStatusPending(t *testing.T) {
	fields := allPopulated()
	fields[FieldBloodGroup] = Sentinel
	if got := DeriveStatus(fields); got != StatusPending {
		t.Fatalf("expected %q, got %q", StatusPending, got)
	}
}

func TestNormalizeFieldsFillsMissingKeys(t *testing.T) {
	fields := NormalizeFields(map[string]string{
		FieldName:     "Jane Doe",
		"extra-noise": "ignored",
	})

	if len(fields) != len(FieldNames) {
		t.Fatalf("expected %d keys, got %d", len(FieldNames), len(fields))
	}
	if _, ok := fields["extra-noise"]; ok {
		t.Fatalf("unknown key survived normalization")
	}
	if fields[FieldName] != "Jane Doe" {
		t.Fatalf("known value dropped: %q", fields[FieldName])
	}
	for _, name := range FieldNames[1:] {
		if fields[name] != Sentinel {
			t.Fatalf("field %q not filled with sentinel: %q", name, fields[name])
		}
	}
}

func TestNormalizeFieldsTreatsEmptyAsMissing(t *testing.T) {
	fields := NormalizeFields(map[string]string{FieldAddress: ""})
	if fields[FieldAddress] != Sentinel {
		t.Fatalf("empty value should become sentinel, got %q", fields[FieldAddress])
	}
}

func TestMissingFields(t *testing.T) {
	fields := allPopulated()
	fields[FieldAddress] = Sentinel
	fields[FieldIDNumber] = Sentinel

	missing := MissingFields(fields)
	if len(missing) != 2 {
		t.Fatalf("expected 2 missing fields, got %d", len(missing))
	}
	if _, ok := missing[FieldAddress]; !ok {
		t.Fatalf("address not reported missing")
	}
	if _, ok := missing[FieldName]; ok {
		t.Fatalf("populated field reported missing")
	}
}

func TestMissingFieldsEmptyWhenComplete(t *testing.T) {
	if missing := MissingFields(allPopulated()); len(missing) != 0 {
		t.Fatalf("expected no missing fields, got %v", missing)
	}
}
