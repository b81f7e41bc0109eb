// Package validation enforces the input contract at the service boundary,
// before any domain logic runs. The check is pure: no clamping, no
// defaulting, no side effects. All violations are collected in one pass so
// a caller can correct a batch of issues in a single round trip.
package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	svcerrors "churn-predictor/internal/common/errors"
	"churn-predictor/internal/models"
)

// Bounds declared by the request schema. Out-of-range values are a
// validation failure, never silently clamped.
const (
	MinAge        = 1
	MaxAge        = 120
	MinPincode    = 100000
	MaxPincode    = 999999
	MaxDependents = 20
)

// Registration dates arrive in the training dataset's D/M/YYYY format or
// as ISO dates.
var dateLayouts = []string{"2/1/2006", "2006-01-02"}

// ValidateRecord checks a raw request mapping against the contract and
// returns the typed record. now anchors the not-in-the-future check for
// the registration date. On failure the violations name every offending
// field.
func ValidateRecord(input map[string]interface{}, now time.Time) (*models.CustomerRecord, []svcerrors.FieldViolation) {
	v := &recordValidator{input: input}

	rec := &models.CustomerRecord{
		TelecomPartner:  v.stringField(models.FieldTelecomPartner),
		Gender:          v.stringField(models.FieldGender),
		Age:             v.intField(models.FieldAge, MinAge, MaxAge),
		State:           v.stringField(models.FieldState),
		City:            v.stringField(models.FieldCity),
		Pincode:         v.intField(models.FieldPincode, MinPincode, MaxPincode),
		NumDependents:   v.intField(models.FieldNumDependents, 0, MaxDependents),
		EstimatedSalary: v.floatField(models.FieldEstimatedSalary, 0),
		CallsMade:       v.intField(models.FieldCallsMade, 0, math.MaxInt32),
		SMSSent:         v.intField(models.FieldSMSSent, 0, math.MaxInt32),
		DataUsed:        v.floatField(models.FieldDataUsed, 0),
	}
	rec.DateOfRegistration = v.dateField(models.FieldDateOfRegistration, now)

	if len(v.violations) > 0 {
		return nil, v.violations
	}
	return rec, nil
}

type recordValidator struct {
	input      map[string]interface{}
	violations []svcerrors.FieldViolation
}

func (v *recordValidator) fail(field, reason string) {
	v.violations = append(v.violations, svcerrors.FieldViolation{Field: field, Reason: reason})
}

// present returns the raw value, recording a violation when the field is
// missing or null.
func (v *recordValidator) present(field string) (interface{}, bool) {
	raw, ok := v.input[field]
	if !ok || raw == nil {
		v.fail(field, "required field missing")
		return nil, false
	}
	return raw, true
}

func (v *recordValidator) stringField(field string) string {
	raw, ok := v.present(field)
	if !ok {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		v.fail(field, fmt.Sprintf("expected string, got %T", raw))
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		v.fail(field, "must not be empty")
		return ""
	}
	return s
}

func (v *recordValidator) intField(field string, min, max int) int {
	raw, ok := v.present(field)
	if !ok {
		return 0
	}
	f, ok := asNumber(raw)
	if !ok {
		v.fail(field, fmt.Sprintf("expected integer, got %v", describe(raw)))
		return 0
	}
	if f != math.Trunc(f) {
		v.fail(field, fmt.Sprintf("expected integer, got %v", f))
		return 0
	}
	n := int(f)
	if n < min || n > max {
		v.fail(field, fmt.Sprintf("must be between %d and %d", min, max))
		return 0
	}
	return n
}

func (v *recordValidator) floatField(field string, min float64) float64 {
	raw, ok := v.present(field)
	if !ok {
		return 0
	}
	f, ok := asNumber(raw)
	if !ok {
		v.fail(field, fmt.Sprintf("expected number, got %v", describe(raw)))
		return 0
	}
	if f < min {
		v.fail(field, fmt.Sprintf("must be >= %v", min))
		return 0
	}
	return f
}

func (v *recordValidator) dateField(field string, now time.Time) time.Time {
	raw, ok := v.present(field)
	if !ok {
		return time.Time{}
	}
	s, ok := raw.(string)
	if !ok {
		v.fail(field, fmt.Sprintf("expected date string, got %T", raw))
		return time.Time{}
	}
	s = strings.TrimSpace(s)

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.After(now) {
			v.fail(field, "must not be in the future")
			return time.Time{}
		}
		return t
	}

	v.fail(field, fmt.Sprintf("invalid date %q, expected D/M/YYYY or YYYY-MM-DD", s))
	return time.Time{}
}

// asNumber accepts JSON numbers and numeric strings. Dashboard clients
// post form values as strings for some fields, so both are part of the
// inbound contract. NaN and infinities are rejected here: ParseFloat
// accepts "NaN" and "Inf", and a NaN slips past every range comparison
// downstream.
func asNumber(raw interface{}) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, isFinite(n)
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || !isFinite(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func describe(raw interface{}) string {
	if s, ok := raw.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%T", raw)
}
