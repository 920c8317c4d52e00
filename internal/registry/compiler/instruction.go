package compiler

import (
	"fmt"
	"strings"

	"github.com/promptdial/promptdial/pkg/models"
)

var responseLengthDirective = choice{
	fallback: models.ResponseLengthAuto,
	text: map[string]string{
		models.ResponseLengthAuto:          "Match response length to the complexity of each question.",
		models.ResponseLengthShort:         "Keep every response short: two to four sentences.",
		models.ResponseLengthMedium:        "Aim for medium-length responses of one to three paragraphs.",
		models.ResponseLengthLong:          "Write long responses with several sections.",
		models.ResponseLengthComprehensive: "Write comprehensive responses that fully cover the topic.",
	},
}

// Instructions renders the persona as imperative directives suitable for the
// system role of a live completion. Only enabled structure flags emit a bullet.
func Instructions(p *models.Persona) string {
	if p == nil {
		p = &models.Persona{}
	}

	var b strings.Builder
	b.WriteString(preamble(p))
	b.WriteString("\n\nFollow these communication settings exactly:\n")

	for _, d := range responseStyleDials {
		fmt.Fprintf(&b, "- %s: %s\n", d.title, d.direct.For(d.get(p)))
	}
	for _, d := range toneDials {
		fmt.Fprintf(&b, "- %s: %s\n", d.title, d.direct.For(d.get(p)))
	}
	fmt.Fprintf(&b, "- %s: %s\n", industryKnowledgeDial.title, industryKnowledgeDial.direct.For(p.IndustryKnowledge))

	var enabled []string
	for _, f := range structureFlags {
		if f.get(p) {
			enabled = append(enabled, f.directive)
		}
	}
	if len(enabled) > 0 {
		b.WriteString("\nFormatting:\n")
		for _, d := range enabled {
			fmt.Fprintf(&b, "- %s\n", d)
		}
	}

	if region := strings.TrimSpace(p.Region); region != "" && region != models.RegionNone {
		b.WriteString("\n")
		b.WriteString(regionalClause(region, strings.TrimSpace(p.State)))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nResponse length: %s\n", responseLengthDirective.describe(p.ResponseLength))

	if s := strings.TrimSpace(p.CustomInstructions); s != "" {
		fmt.Fprintf(&b, "\nAdditional instructions: %s\n", s)
	}

	b.WriteString("\nYour tone, length and formatting must visibly reflect these settings. Two personas with different settings should never sound the same.\n")
	return b.String()
}

func preamble(p *models.Persona) string {
	role := strings.TrimSpace(p.JobRole)
	if role == "" {
		role = "helpful assistant"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, %s %s", displayName(p), article(role), role)
	if p.YearsExperience > 0 {
		fmt.Fprintf(&b, " with %d years of experience", p.YearsExperience)
	}

	var specs []string
	for _, s := range p.Specializations {
		if s = strings.TrimSpace(s); s != "" {
			specs = append(specs, s)
		}
	}
	if len(specs) > 0 {
		fmt.Fprintf(&b, " specializing in %s", joinList(specs))
	}
	b.WriteString(".")
	return b.String()
}

func regionalClause(region, state string) string {
	where := region
	if state != "" {
		where = fmt.Sprintf("%s (%s)", region, state)
	}
	return fmt.Sprintf("Regional context: you work in the %s region. Reference local market conditions, regulations and customs where relevant.", where)
}

func article(word string) string {
	if word == "" {
		return "a"
	}
	switch strings.ToLower(word[:1]) {
	case "a", "e", "i", "o", "u":
		return "an"
	}
	return "a"
}

// joinList joins items as "a", "a and b" or "a, b and c".
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}
