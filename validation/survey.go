// Package validation holds the survey answer schema. It is deliberately free
// of HTTP and database imports: the same rules gate each wizard step on the
// client side and the full payload on the server side.
package validation

import (
	"net/mail"
	"strings"
)

// Field names as they appear on the wire.
const (
	FieldTravelerType         = "traveler_type"
	FieldParkingPreference    = "parking_preference"
	FieldUsageFrequency       = "usage_frequency"
	FieldExitMethod           = "exit_method"
	FieldExitTime             = "exit_time"
	FieldCashierEfficient     = "cashier_efficient"
	FieldCleanlinessSurface   = "cleanliness_surface"
	FieldCleanlinessStairs    = "cleanliness_stairs"
	FieldCleanlinessElevators = "cleanliness_elevators"
	FieldOverallExperience    = "overall_experience"
	FieldComments             = "comments"
	FieldFirstName            = "first_name"
	FieldPhone                = "phone"
	FieldEmail                = "email"
)

// Allowed values per categorical field.
var (
	TravelerTypes      = []string{"leisure", "business"}
	ParkingPreferences = []string{"self_park", "shuttle_service"}
	UsageFrequencies   = []string{"5_or_fewer", "more_than_5"}
	ExitMethods        = []string{"automated", "cashier", "pay_on_foot"}
	ExitTimes          = []string{"1_4_minutes", "5_9_minutes", "10_plus_minutes"}
)

// Rating bounds, inclusive.
const (
	RatingMin = 1
	RatingMax = 4
)

// SurveyInput is a candidate survey answer set. Zero values mean "not
// answered yet"; a partially filled SurveyInput is what the wizard carries
// between steps and what gets drafted to local storage.
type SurveyInput struct {
	TravelerType         string `json:"traveler_type,omitempty"`
	ParkingPreference    string `json:"parking_preference,omitempty"`
	UsageFrequency       string `json:"usage_frequency,omitempty"`
	ExitMethod           string `json:"exit_method,omitempty"`
	ExitTime             string `json:"exit_time,omitempty"`
	CashierEfficient     *bool  `json:"cashier_efficient,omitempty"`
	CleanlinessSurface   int    `json:"cleanliness_surface,omitempty"`
	CleanlinessStairs    int    `json:"cleanliness_stairs,omitempty"`
	CleanlinessElevators int    `json:"cleanliness_elevators,omitempty"`
	OverallExperience    int    `json:"overall_experience,omitempty"`
	Comments             string `json:"comments,omitempty"`
	FirstName            string `json:"first_name,omitempty"`
	Phone                string `json:"phone,omitempty"`
	Email                string `json:"email,omitempty"`
}

// FieldErrors maps a field name to a human-readable violation. A nil map
// means the input passed.
type FieldErrors map[string]string

// AllFields is the canonical field order, used when validating a full payload.
var AllFields = []string{
	FieldTravelerType,
	FieldParkingPreference,
	FieldUsageFrequency,
	FieldExitMethod,
	FieldExitTime,
	FieldCashierEfficient,
	FieldCleanlinessSurface,
	FieldCleanlinessStairs,
	FieldCleanlinessElevators,
	FieldOverallExperience,
	FieldComments,
	FieldFirstName,
	FieldPhone,
	FieldEmail,
}

// Validate checks the complete answer set. It is the authoritative gate: the
// submission endpoint refuses any payload that fails here.
func Validate(in SurveyInput) FieldErrors {
	return ValidateFields(in, AllFields...)
}

// ValidateFields checks only the named fields, which is how the wizard gates
// a single step without touching answers from later steps.
func ValidateFields(in SurveyInput, fields ...string) FieldErrors {
	var errs FieldErrors
	add := func(field, msg string) {
		if errs == nil {
			errs = FieldErrors{}
		}
		errs[field] = msg
	}

	for _, f := range fields {
		switch f {
		case FieldTravelerType:
			if !oneOf(in.TravelerType, TravelerTypes) {
				add(f, "Please select traveler type")
			}
		case FieldParkingPreference:
			if !oneOf(in.ParkingPreference, ParkingPreferences) {
				add(f, "Please select parking preference")
			}
		case FieldUsageFrequency:
			if !oneOf(in.UsageFrequency, UsageFrequencies) {
				add(f, "Please select usage frequency")
			}
		case FieldExitMethod:
			if !oneOf(in.ExitMethod, ExitMethods) {
				add(f, "Please select exit method")
			}
		case FieldExitTime:
			if !oneOf(in.ExitTime, ExitTimes) {
				add(f, "Please select exit time")
			}
		case FieldCashierEfficient:
			// Optional boolean. The schema does not tie it to exit_method;
			// a value is accepted (and stored) regardless of how the
			// visitor exited.
		case FieldCleanlinessSurface:
			if !ratingInRange(in.CleanlinessSurface) {
				add(f, "Please rate cleanliness")
			}
		case FieldCleanlinessStairs:
			if !ratingInRange(in.CleanlinessStairs) {
				add(f, "Please rate cleanliness")
			}
		case FieldCleanlinessElevators:
			if !ratingInRange(in.CleanlinessElevators) {
				add(f, "Please rate cleanliness")
			}
		case FieldOverallExperience:
			if !ratingInRange(in.OverallExperience) {
				add(f, "Please rate your overall experience")
			}
		case FieldComments, FieldPhone:
			// Unconstrained optional strings.
		case FieldFirstName:
			if strings.TrimSpace(in.FirstName) == "" {
				add(f, "Please enter your first name")
			}
		case FieldEmail:
			if in.Email != "" {
				if _, err := mail.ParseAddress(in.Email); err != nil {
					add(f, "Invalid email address")
				}
			}
		}
	}
	return errs
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func ratingInRange(v int) bool {
	return v >= RatingMin && v <= RatingMax
}
