package models

import (
	"time"
)

// Document status values. Status is derived from the extracted fields at
// creation time and never updated by the pipeline afterwards.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Sentinel is the value the model is instructed to return for any field it
// could not read from the document image.
const Sentinel = "Not Provided"

// The fixed field set every extracted document carries.
const (
	FieldName        = "name"
	FieldFatherName  = "father's name"
	FieldMotherName  = "mother's name"
	FieldDateOfBirth = "date of birth"
	FieldIDNumber    = "ID number"
	FieldAddress     = "address"
	FieldBloodGroup  = "blood group"
)

// FieldNames lists the seven keys present in every extracted document.
var FieldNames = []string{
	FieldName,
	FieldFatherName,
	FieldMotherName,
	FieldDateOfBirth,
	FieldIDNumber,
	FieldAddress,
	FieldBloodGroup,
}

// ExtractedDocument is the persisted result of one processed document image.
// The sequential integer id doubles as the GCS object name.
type ExtractedDocument struct {
	ID            int64             `bson:"_id" json:"id"`
	ExtractedData map[string]string `bson:"extracted_data" json:"extracted_data"`
	ImageURL      string            `bson:"image_url" json:"image_url"`
	Status        string            `bson:"status" json:"status"`
	CreatedAt     time.Time         `bson:"created_at" json:"created_at"`
}

// NormalizeFields maps a raw field mapping onto the canonical seven-key set.
// Missing keys are filled with the sentinel, unknown keys are dropped, so the
// stored document always carries exactly the known fields.
func NormalizeFields(raw map[string]string) map[string]string {
	fields := make(map[string]string, len(FieldNames))
	for _, name := range FieldNames {
		if v, ok := raw[name]; ok && v != "" {
			fields[name] = v
		} else {
			fields[name] = Sentinel
		}
	}
	return fields
}

// DeriveStatus returns StatusCompleted when no field value equals the
// sentinel, StatusPending otherwise.
func DeriveStatus(fields map[string]string) string {
	for _, v := range fields {
		if v == Sentinel {
			return StatusPending
		}
	}
	return StatusCompleted
}

// MissingFields returns the subset of fields whose value is the sentinel.
func MissingFields(fields map[string]string) map[string]string {
	missing := make(map[string]string)
	for k, v := range fields {
		if v == Sentinel {
			missing[k] = v
		}
	}
	return missing
}
