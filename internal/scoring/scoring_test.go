package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sdr-ops/internal/model"
)

func validLead() model.Lead {
	return model.Lead{
		CompanyName:  "Acme",
		Industry:     "SaaS",
		CompanySize:  "50-500",
		ContactEmail: "jane@acme.io",
	}
}

func TestScore_FullFit(t *testing.T) {
	res, err := Score(validLead(), DefaultConfig(70))
	require.NoError(t, err)
	// base 50 + industry 20 + size 20 + completeness 10
	assert.Equal(t, 100, res.Score)
	assert.True(t, res.MeetsThreshold)
}

func TestScore_IndustryCaseInsensitive(t *testing.T) {
	cfg := DefaultConfig(70)

	for _, industry := range []string{"saas", "SaaS", "SAAS", "  Technology  "} {
		lead := validLead()
		lead.Industry = industry
		lead.CompanySize = ""

		res, err := Score(lead, cfg)
		require.NoError(t, err)
		assert.Equal(t, 70, res.Score, "industry %q", industry)
	}
}

func TestScore_UnknownIndustryAndSize(t *testing.T) {
	lead := validLead()
	lead.Industry = "Agriculture"
	lead.CompanySize = "17"

	res, err := Score(lead, DefaultConfig(70))
	require.NoError(t, err)
	// Unknown values contribute nothing but completeness still applies.
	assert.Equal(t, 60, res.Score)
	assert.False(t, res.MeetsThreshold)
}

func TestScore_NoCompletenessWithoutBoth(t *testing.T) {
	lead := validLead()
	lead.CompanySize = ""

	res, err := Score(lead, DefaultConfig(70))
	require.NoError(t, err)
	assert.Equal(t, 70, res.Score) // base + industry, no bonus
}

func TestScore_ThresholdBoundary(t *testing.T) {
	lead := validLead()
	lead.CompanySize = ""

	// Score is exactly 70; meets a threshold of 70 but not 71.
	res, err := Score(lead, DefaultConfig(70))
	require.NoError(t, err)
	assert.True(t, res.MeetsThreshold)

	res, err = Score(lead, DefaultConfig(71))
	require.NoError(t, err)
	assert.False(t, res.MeetsThreshold)
}

func TestScore_ClampUpper(t *testing.T) {
	cfg := DefaultConfig(70)
	cfg.BaseScore = 90

	res, err := Score(validLead(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Score)
}

func TestScore_Deterministic(t *testing.T) {
	cfg := DefaultConfig(70)
	lead := validLead()

	first, err := Score(lead, cfg)
	require.NoError(t, err)
	second, err := Score(lead, cfg)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScore_DataQuality(t *testing.T) {
	cfg := DefaultConfig(70)

	tests := []struct {
		name   string
		mutate func(*model.Lead)
		field  string
	}{
		{"missing company name", func(l *model.Lead) { l.CompanyName = "  " }, "company_name"},
		{"missing email", func(l *model.Lead) { l.ContactEmail = "" }, "contact_email"},
		{"malformed email", func(l *model.Lead) { l.ContactEmail = "jane@@acme" }, "contact_email"},
		{"email without tld", func(l *model.Lead) { l.ContactEmail = "jane@acme" }, "contact_email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := validLead()
			tt.mutate(&lead)

			_, err := Score(lead, cfg)
			var dqe *DataQualityError
			require.True(t, errors.As(err, &dqe))
			assert.Equal(t, tt.field, dqe.Field)
		})
	}
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("jane.doe+tag@acme-corp.example.io"))
	assert.False(t, ValidEmail("jane at acme.io"))
	assert.False(t, ValidEmail("@acme.io"))
	assert.False(t, ValidEmail("jane@acme.i"))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(DefaultConfig(70)))

	bad := DefaultConfig(70)
	bad.Threshold = 120
	bad.IndustryFit["saas"] = -5
	err := Validate(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "threshold")
	assert.Contains(t, err.Error(), "industry_fit")
}
