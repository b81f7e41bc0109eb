package models

import "time"

// Field names of the inbound request contract.
const (
	FieldTelecomPartner     = "telecom_partner"
	FieldGender             = "gender"
	FieldAge                = "age"
	FieldState              = "state"
	FieldCity               = "city"
	FieldPincode            = "pincode"
	FieldDateOfRegistration = "date_of_registration"
	FieldNumDependents      = "num_dependents"
	FieldEstimatedSalary    = "estimated_salary"
	FieldCallsMade          = "calls_made"
	FieldSMSSent            = "sms_sent"
	FieldDataUsed           = "data_used"
)

// RequiredFields lists every field the request contract demands, in the
// order they appear in the training dataset.
var RequiredFields = []string{
	FieldTelecomPartner,
	FieldGender,
	FieldAge,
	FieldState,
	FieldCity,
	FieldPincode,
	FieldDateOfRegistration,
	FieldNumDependents,
	FieldEstimatedSalary,
	FieldCallsMade,
	FieldSMSSent,
	FieldDataUsed,
}

// CustomerRecord is a fully validated, typed customer record. It only
// exists past the validation layer; handlers never construct one from raw
// input directly.
type CustomerRecord struct {
	TelecomPartner     string
	Gender             string
	Age                int
	State              string
	City               string
	Pincode            int
	DateOfRegistration time.Time
	NumDependents      int
	EstimatedSalary    float64
	CallsMade          int
	SMSSent            int
	DataUsed           float64
}

// SampleRecord returns the canonical example payload exposed on the
// sample-input endpoint.
func SampleRecord() map[string]interface{} {
	return map[string]interface{}{
		FieldTelecomPartner:     "Reliance Jio",
		FieldGender:             "F",
		FieldAge:                35,
		FieldState:              "Karnataka",
		FieldCity:               "Bangalore",
		FieldPincode:            560001,
		FieldDateOfRegistration: "1/1/2020",
		FieldNumDependents:      2,
		FieldEstimatedSalary:    75000,
		FieldCallsMade:          50,
		FieldSMSSent:            30,
		FieldDataUsed:           5000,
	}
}
