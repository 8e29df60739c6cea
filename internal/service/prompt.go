package service

import (
	"strings"

	"github.com/MKhiriev/go-kaya/models"
)

// PromptInput is everything a prompt may depend on.
type PromptInput struct {
	Question   string
	ImageCount int
	History    []models.Exchange
}

// PromptBuilder turns a question and its context into the engine prompt.
// Implementations must be pure: the same input always yields the same text.
type PromptBuilder func(in PromptInput) string

const advisorIntro = `You are a knowledgeable Ayurvedic beauty advisor specializing in natural skin care.
Answer warmly and respectfully, in plain language.`

const imageInstructions = `The user has shared photos of their face. Before giving advice:
- Rate the overall skin health on a scale from 0 to 10.
- Describe what you observe: tone, texture, dryness or oiliness, acne, pigmentation, fine lines.
- Summarize the findings kindly and without judgement.
- If something in the photos is unclear, ask the user to clarify.`

const textOnlyInstructions = `No photos were shared. Rely on what the user tells you and ask for their
skin type, main concerns and current routine when that would change your advice.`

const generalInstructions = `For every answer:
- Give 3 to 5 practical Ayurvedic tips as bullet points, each with a realistic timeframe for results.
- Prefer natural ingredients and mention simple alternatives.
- Do not make medical diagnoses; suggest a dermatologist for anything that looks serious.`

const followUpInstructions = `Continue the conversation below. Build on the earlier analysis instead of
repeating it, skip the greeting and do not ask for photos again unless it is necessary.`

// DefaultPromptBuilder is the advisor prompt used by the server.
func DefaultPromptBuilder(in PromptInput) string {
	var b strings.Builder

	b.WriteString(advisorIntro)
	b.WriteString("\n\n")

	if in.ImageCount > 0 {
		b.WriteString(imageInstructions)
	} else {
		b.WriteString(textOnlyInstructions)
	}
	b.WriteString("\n\n")
	b.WriteString(generalInstructions)
	b.WriteString("\n\n")

	if len(in.History) > 0 {
		b.WriteString(followUpInstructions)
		b.WriteString("\n\nPrevious conversation:\n")
		for _, ex := range in.History {
			b.WriteString("User: ")
			b.WriteString(ex.Question)
			b.WriteString("\nAdvisor: ")
			b.WriteString(ex.Answer)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("User question: ")
	b.WriteString(in.Question)

	return b.String()
}
