package encoding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churn-predictor/internal/artifact"
	svcerrors "churn-predictor/internal/common/errors"
	"churn-predictor/internal/models"
)

var ref = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func testBundle() *artifact.Bundle {
	return &artifact.Bundle{
		SchemaVersion: 1,
		ModelVersion:  "v1.0.0",
		Features: []artifact.FeatureSpec{
			{Name: "telecom_partner", Source: "telecom_partner", Kind: artifact.FeatureCategorical},
			{Name: "gender", Source: "gender", Kind: artifact.FeatureCategorical},
			{Name: "age", Source: "age", Kind: artifact.FeatureNumeric},
			{Name: "estimated_salary", Source: "estimated_salary", Kind: artifact.FeatureNumeric},
			{Name: "tenure", Source: "date_of_registration", Kind: artifact.FeatureTenureDays},
		},
		Vocabularies: map[string][]string{
			"telecom_partner": {"Airtel", "BSNL", "Reliance Jio", "Vodafone"},
			"gender":          {"F", "M"},
		},
		Scaler: artifact.Scaler{
			Mean:  []float64{0, 0, 0, 0, 0},
			Scale: []float64{1, 1, 1, 1, 1},
		},
		Model: artifact.Model{
			Type:         artifact.ModelLogisticRegression,
			Coefficients: []float64{0, 0, 0, 0, 0},
		},
		UnknownPolicy: artifact.PolicyReject,
	}
}

func testRecord() *models.CustomerRecord {
	return &models.CustomerRecord{
		TelecomPartner:     "Reliance Jio",
		Gender:             "M",
		Age:                35,
		State:              "Karnataka",
		City:               "Bangalore",
		Pincode:            560001,
		DateOfRegistration: time.Date(2024, 5, 22, 0, 0, 0, 0, time.UTC),
		NumDependents:      2,
		EstimatedSalary:    75000,
		CallsMade:          50,
		SMSSent:            30,
		DataUsed:           5000,
	}
}

func TestEncode_OrderAndValues(t *testing.T) {
	vec, err := Encode(testRecord(), testBundle(), ref)
	require.NoError(t, err)

	// telecom_partner index 2, gender index 1, age, salary, 10 days tenure.
	assert.Equal(t, []float64{2, 1, 35, 75000, 10}, vec)
}

func TestEncode_AppliesFrozenScaler(t *testing.T) {
	b := testBundle()
	b.Scaler = artifact.Scaler{
		Mean:  []float64{1, 0.5, 30, 50000, 365},
		Scale: []float64{2, 0.5, 10, 25000, 100},
	}

	vec, err := Encode(testRecord(), b, ref)
	require.NoError(t, err)

	assert.InDelta(t, (2.0-1)/2, vec[0], 1e-12)
	assert.InDelta(t, (1.0-0.5)/0.5, vec[1], 1e-12)
	assert.InDelta(t, (35.0-30)/10, vec[2], 1e-12)
	assert.InDelta(t, (75000.0-50000)/25000, vec[3], 1e-12)
	assert.InDelta(t, (10.0-365)/100, vec[4], 1e-12)
}

func TestEncode_Deterministic(t *testing.T) {
	b := testBundle()
	rec := testRecord()

	first, err := Encode(rec, b, ref)
	require.NoError(t, err)
	second, err := Encode(rec, b, ref)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEncode_TenureFollowsReferenceTime(t *testing.T) {
	b := testBundle()
	rec := testRecord()

	vec, err := Encode(rec, b, ref)
	require.NoError(t, err)
	later, err := Encode(rec, b, ref.AddDate(1, 0, 0))
	require.NoError(t, err)

	assert.Equal(t, vec[4]+365, later[4])
}

func TestEncode_TenureFlooredToWholeDays(t *testing.T) {
	b := testBundle()
	rec := testRecord()

	// 10 days and 18 hours since registration still counts as 10 days.
	vec, err := Encode(rec, b, ref.Add(18*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 10.0, vec[4])
}

func TestEncode_UnseenCategoryRejected(t *testing.T) {
	rec := testRecord()
	rec.TelecomPartner = "Unknown Telecom"

	vec, err := Encode(rec, testBundle(), ref)
	assert.Nil(t, vec)

	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, svcerrors.ErrCodeUnseenCategory, svcErr.Code)
	require.Len(t, svcErr.Fields, 1)
	assert.Equal(t, "telecom_partner", svcErr.Fields[0].Field)
}

func TestEncode_BucketPolicyMapsToUnknownClass(t *testing.T) {
	b := testBundle()
	b.UnknownPolicy = artifact.PolicyBucket
	b.Vocabularies["telecom_partner"] = append(b.Vocabularies["telecom_partner"], artifact.UnknownClass)
	b.Vocabularies["gender"] = append(b.Vocabularies["gender"], artifact.UnknownClass)

	rec := testRecord()
	rec.TelecomPartner = "Unknown Telecom"

	vec, err := Encode(rec, b, ref)
	require.NoError(t, err)

	// __unknown__ was appended at index 4.
	assert.Equal(t, 4.0, vec[0])
}

func TestEncode_UnknownSourceIsArtifactMismatch(t *testing.T) {
	b := testBundle()
	b.Features[2].Source = "shoe_size"

	_, err := Encode(testRecord(), b, ref)
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, svcerrors.ErrCodeArtifactMismatch, svcErr.Code)
}
