package hospital

import (
	"encoding/json"
	"fmt"
	"math"
)

// Doctor is one candidate supplied by the caller. Pointers make the
// required check distinguish a missing field (or a null list element) from
// a zero value.
type Doctor struct {
	ID             *DoctorID `json:"id" binding:"required"`
	Name           *string   `json:"name" binding:"required"`
	Specialization []*string `json:"specialization" binding:"required,dive,required"`
}

// DoctorID is an integer id. Integral floats such as 3.0 are accepted;
// strings and fractional numbers are not.
type DoctorID int

func (id *DoctorID) UnmarshalJSON(b []byte) error {
	var n json.Number
	if len(b) == 0 || b[0] == '"' || json.Unmarshal(b, &n) != nil {
		return fmt.Errorf("doctor id must be an integer, got %s", b)
	}
	if i, err := n.Int64(); err == nil {
		*id = DoctorID(i)
		return nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return fmt.Errorf("doctor id must be an integer, got %s", b)
	}
	*id = DoctorID(f)
	return nil
}

// DoctorRecommendationRequest accepts an empty doctors list; it is still
// sent to the model.
type DoctorRecommendationRequest struct {
	Doctors []Doctor `json:"doctors" binding:"required,dive"`
	Reason  *string  `json:"reason" binding:"required"`
}

type MedicineSuggestionRequest struct {
	MedicalRecords []map[string]any `json:"medical_records" binding:"required,dive,required"`
	Symptoms       []*string        `json:"symptoms" binding:"required,dive,required"`
}

// values dereferences a validated list; binding has already rejected nil
// elements.
func values(items []*string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		if s != nil {
			out[i] = *s
		}
	}
	return out
}

const noDoctorName = "No suitable doctor found"

// DoctorFallback is returned when no JSON object can be extracted from the
// model reply on the doctor path.
type DoctorFallback struct {
	ID    *int   `json:"id"`
	Name  string `json:"name"`
	Error string `json:"error,omitempty"`
}

// MedicineFallback is the medicine path counterpart of DoctorFallback.
type MedicineFallback struct {
	Medicines []string `json:"medicines"`
	Error     string   `json:"error,omitempty"`
}

func newDoctorFallback(reason string) DoctorFallback {
	return DoctorFallback{Name: noDoctorName, Error: reason}
}

func newMedicineFallback(reason string) MedicineFallback {
	return MedicineFallback{Medicines: []string{}, Error: reason}
}
