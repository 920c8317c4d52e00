package compiler

import (
	"fmt"
	"strings"

	"github.com/promptdial/promptdial/pkg/models"
)

// MaxAvatarPromptLength caps the image prompt in characters.
const MaxAvatarPromptLength = 1000

var (
	avatarPalette = threeWay(
		"a muted, cool palette of slate blues and soft greys",
		"a balanced palette of teal, warm sand and navy",
		"a vibrant palette of sunny oranges, magentas and bright yellows",
	)
	avatarShapes = threeWay(
		"soft rounded shapes and gentle curves",
		"a mix of rounded and structured geometric forms",
		"bold angular shapes and strong confident lines",
	)
	avatarComposition = threeWay(
		"a clean, centered and symmetrical composition",
		"a balanced composition with subtle asymmetry",
		"a dynamic, playful and unconventional composition",
	)
	avatarRefinement = threeWay(
		"a relaxed, approachable look in casual attire",
		"a smart-casual look with tidy business attire",
		"a polished, refined look in formal professional attire",
	)
)

var avatarGender = map[string]string{
	"male":    "a friendly male professional",
	"female":  "a friendly female professional",
	"neutral": "a friendly gender-neutral professional",
}

// AvatarPrompt builds the image generation prompt for a persona's avatar.
// The result never exceeds MaxAvatarPromptLength characters.
func AvatarPrompt(p *models.Persona) string {
	if p == nil {
		p = &models.Persona{}
	}

	subject, ok := avatarGender[strings.ToLower(strings.TrimSpace(p.Gender))]
	if !ok {
		subject = avatarGender["neutral"]
	}
	if role := strings.TrimSpace(p.JobRole); role != "" {
		subject = fmt.Sprintf("%s working as %s %s", subject, article(role), role)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "A modern flat-illustration avatar portrait of %s. ", subject)
	fmt.Fprintf(&b, "Use %s, %s and %s. ",
		avatarPalette.For(p.Enthusiasm),
		avatarShapes.For(p.Confidence),
		avatarComposition.For(p.CreativityLevel))
	fmt.Fprintf(&b, "The character has %s. ", avatarRefinement.For(p.FormalityLevel))

	if region := strings.TrimSpace(p.Region); region != "" && region != models.RegionNone {
		fmt.Fprintf(&b, "Include subtle background hints of the %s region. ", region)
	}
	if Classify(p.TechnicalDepth) >= High {
		b.WriteString("Add understated analytical details such as charts or a laptop. ")
	}
	b.WriteString("Head and shoulders, plain background, no text, no logos.")

	return truncate(b.String(), MaxAvatarPromptLength)
}

// truncate shortens s to at most limit runes, ending with "..." when cut.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}
