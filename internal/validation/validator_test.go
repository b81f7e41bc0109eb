package validation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churn-predictor/internal/models"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func validInput() map[string]interface{} {
	return map[string]interface{}{
		"telecom_partner":      "Airtel",
		"gender":               "M",
		"age":                  float64(42),
		"state":                "Maharashtra",
		"city":                 "Mumbai",
		"pincode":              float64(400001),
		"date_of_registration": "15/3/2021",
		"num_dependents":       float64(3),
		"estimated_salary":     float64(85000),
		"calls_made":           float64(120),
		"sms_sent":             float64(40),
		"data_used":            float64(10240.5),
	}
}

func TestValidateRecord_Valid(t *testing.T) {
	rec, violations := ValidateRecord(validInput(), testNow)

	require.Empty(t, violations)
	require.NotNil(t, rec)

	assert.Equal(t, "Airtel", rec.TelecomPartner)
	assert.Equal(t, "M", rec.Gender)
	assert.Equal(t, 42, rec.Age)
	assert.Equal(t, 400001, rec.Pincode)
	assert.Equal(t, 3, rec.NumDependents)
	assert.Equal(t, 85000.0, rec.EstimatedSalary)
	assert.Equal(t, 120, rec.CallsMade)
	assert.Equal(t, 40, rec.SMSSent)
	assert.Equal(t, 10240.5, rec.DataUsed)
	assert.Equal(t, time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC), rec.DateOfRegistration)
}

func TestValidateRecord_ISODateAccepted(t *testing.T) {
	input := validInput()
	input["date_of_registration"] = "2021-03-15"

	rec, violations := ValidateRecord(input, testNow)
	require.Empty(t, violations)
	assert.Equal(t, time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC), rec.DateOfRegistration)
}

func TestValidateRecord_NumericStringsAccepted(t *testing.T) {
	input := validInput()
	input["age"] = "42"
	input["estimated_salary"] = "85000.50"

	rec, violations := ValidateRecord(input, testNow)
	require.Empty(t, violations)
	assert.Equal(t, 42, rec.Age)
	assert.Equal(t, 85000.50, rec.EstimatedSalary)
}

func TestValidateRecord_SingleViolationNamesOnlyThatField(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		value  interface{}
		reason string
	}{
		{"age above range", "age", float64(121), "must be between 1 and 120"},
		{"age below range", "age", float64(0), "must be between 1 and 120"},
		{"age not an integer", "age", 42.5, "expected integer"},
		{"pincode too short", "pincode", float64(99999), "must be between 100000 and 999999"},
		{"gender wrong type", "gender", float64(1), "expected string"},
		{"state empty", "state", "   ", "must not be empty"},
		{"salary negative", "estimated_salary", float64(-1), "must be >= 0"},
		{"calls negative", "calls_made", float64(-5), "must be between"},
		{"dependents above cap", "num_dependents", float64(21), "must be between 0 and 20"},
		{"date malformed", "date_of_registration", "2021/03/15", "invalid date"},
		{"date in the future", "date_of_registration", "1/1/2030", "must not be in the future"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			input[tt.field] = tt.value

			rec, violations := ValidateRecord(input, testNow)
			assert.Nil(t, rec)
			require.Len(t, violations, 1)
			assert.Equal(t, tt.field, violations[0].Field)
			assert.Contains(t, violations[0].Reason, tt.reason)
		})
	}
}

func TestValidateRecord_MissingFieldNamesThatField(t *testing.T) {
	for _, field := range models.RequiredFields {
		t.Run(field, func(t *testing.T) {
			input := validInput()
			delete(input, field)

			rec, violations := ValidateRecord(input, testNow)
			assert.Nil(t, rec)
			require.Len(t, violations, 1)
			assert.Equal(t, field, violations[0].Field)
			assert.Equal(t, "required field missing", violations[0].Reason)
		})
	}
}

func TestValidateRecord_NonFiniteNumbersRejected(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value interface{}
	}{
		{"salary NaN string", "estimated_salary", "NaN"},
		{"salary Inf string", "estimated_salary", "Inf"},
		{"salary +Inf string", "estimated_salary", "+Inf"},
		{"salary -Inf string", "estimated_salary", "-Inf"},
		{"data used NaN string", "data_used", "NaN"},
		{"salary NaN value", "estimated_salary", math.NaN()},
		{"data used Inf value", "data_used", math.Inf(1)},
		{"age Inf string", "age", "Inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			input[tt.field] = tt.value

			rec, violations := ValidateRecord(input, testNow)
			assert.Nil(t, rec)
			require.Len(t, violations, 1)
			assert.Equal(t, tt.field, violations[0].Field)
		})
	}
}

func TestValidateRecord_NullTreatedAsMissing(t *testing.T) {
	input := validInput()
	input["city"] = nil

	_, violations := ValidateRecord(input, testNow)
	require.Len(t, violations, 1)
	assert.Equal(t, "city", violations[0].Field)
	assert.Equal(t, "required field missing", violations[0].Reason)
}

func TestValidateRecord_CollectsAllViolationsInOnePass(t *testing.T) {
	input := validInput()
	input["age"] = float64(200)
	input["pincode"] = "not-a-number"
	delete(input, "gender")

	rec, violations := ValidateRecord(input, testNow)
	assert.Nil(t, rec)
	require.Len(t, violations, 3)

	byField := map[string]string{}
	for _, v := range violations {
		byField[v.Field] = v.Reason
	}
	assert.Contains(t, byField, "age")
	assert.Contains(t, byField, "pincode")
	assert.Contains(t, byField, "gender")
}

func TestValidateRecord_BoundaryValuesAccepted(t *testing.T) {
	input := validInput()
	input["age"] = float64(1)
	input["pincode"] = float64(100000)
	input["num_dependents"] = float64(0)
	input["calls_made"] = float64(0)
	input["estimated_salary"] = float64(0)

	rec, violations := ValidateRecord(input, testNow)
	require.Empty(t, violations)
	assert.Equal(t, 1, rec.Age)
	assert.Equal(t, 100000, rec.Pincode)
}

func TestValidateRecord_RegistrationTodayAccepted(t *testing.T) {
	input := validInput()
	input["date_of_registration"] = "2024-06-01"

	// Midnight of the reference day is not after noon of the same day.
	_, violations := ValidateRecord(input, testNow)
	assert.Empty(t, violations)
}

func TestValidateRecord_SampleRecordPasses(t *testing.T) {
	rec, violations := ValidateRecord(models.SampleRecord(), testNow)
	require.Empty(t, violations)
	assert.Equal(t, "Reliance Jio", rec.TelecomPartner)
}
