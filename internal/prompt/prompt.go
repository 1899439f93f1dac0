// Package prompt holds the variant prompt templates used for A/B comparison
// of qualification outreach. Variants are immutable once an interaction
// references them, so past runs stay auditable.
package prompt

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sdr-ops/internal/model"
	"github.com/sells-group/sdr-ops/pkg/llm"
)

// Known prompt variants.
const (
	VariantA = "A"
	VariantB = "B"
)

// Validate checks that v names a known variant.
func Validate(v string) error {
	switch v {
	case VariantA, VariantB:
		return nil
	}
	return eris.Errorf("prompt: unknown variant %q", v)
}

// Qualification builds the variant-specific generation prompt from lead
// attributes and the deterministic scoring result. The template instructs
// the model to emit its reasoning first, then the email body after the
// marker, which the adapter splits on.
func Qualification(variant string, lead model.Lead, score int) (string, error) {
	if err := Validate(variant); err != nil {
		return "", err
	}

	industry := orUnknown(lead.Industry)
	size := orUnknown(lead.CompanySize)
	contact := lead.ContactName
	if contact == "" {
		contact = "there"
	}

	switch variant {
	case VariantB:
		return fmt.Sprintf(`As an AI SDR, draft outreach for this qualified sales lead.

Lead Details:
Company: %s
Industry: %s
Size: %s
Contact: %s <%s>
Fit Score: %d/100

First give 2-3 key reasoning points on why this lead fits and what angle
the outreach should take.

Then write %s on its own line, followed by the complete email:
1. Catchy subject line
2. Personal greeting
3. Relevant industry insight
4. Clear value proposition
5. Soft call-to-action (request for a brief call)
6. Professional close

Never mention pricing, fees or competitors.`,
			lead.CompanyName, industry, size, contact, lead.ContactEmail, score, llm.EmailMarker), nil
	default:
		return fmt.Sprintf(`You are an AI Sales Development Representative drafting outreach.

Lead Information:
- Company: %s
- Industry: %s
- Company Size: %s
- Contact: %s (%s)
- Qualification Score: %d/100

Your task:
1. Briefly explain why this lead is worth contacting and the best angle.
2. On a new line write exactly %s
3. Then write a professional, personalized outreach email:
   - Professional but friendly tone
   - Personalize based on industry
   - Clear value proposition
   - Specific call-to-action
   - Keep under 150 words
   - Include a subject line

Never discuss pricing, fees or competitors.`,
			lead.CompanyName, industry, size, contact, lead.ContactEmail, score, llm.EmailMarker), nil
	}
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
