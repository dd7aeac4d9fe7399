package hospital

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const doctorTemplate = `You are a hospital AI assistant. A patient has the following reason: "%s".
From the following doctors, recommend the most suitable doctor.
Doctors: %s
Return only JSON: {"id": <doctor id>, "name": "<doctor name>"}`

const medicineTemplate = `You are a hospital AI assistant. A patient has symptoms: %s.
Past medical records: %s
Suggest medicines. Return only JSON: {"medicines": ["<medicine name>", ...]}`

// DoctorPrompt renders the recommendation prompt. Values are interpolated
// as given, with no escaping.
func DoctorPrompt(doctors []Doctor, reason string) string {
	return fmt.Sprintf(doctorTemplate, reason, formatDoctors(doctors))
}

// MedicinePrompt renders the medicine suggestion prompt.
func MedicinePrompt(symptoms []string, records []map[string]any) string {
	return fmt.Sprintf(medicineTemplate, quoteList(symptoms), formatRecords(records))
}

// formatDoctors renders doctors as (id, 'name', ['specialization', ...])
// tuples in input order.
func formatDoctors(doctors []Doctor) string {
	parts := make([]string, 0, len(doctors))
	for _, d := range doctors {
		id, name := 0, ""
		if d.ID != nil {
			id = int(*d.ID)
		}
		if d.Name != nil {
			name = *d.Name
		}
		parts = append(parts, "("+strconv.Itoa(id)+", '"+name+"', "+quoteList(values(d.Specialization))+")")
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + s + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// formatRecords renders records as compact JSON. encoding/json sorts map
// keys, so the output is stable for equal input.
func formatRecords(records []map[string]any) string {
	if records == nil {
		records = []map[string]any{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Sprint(records)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
