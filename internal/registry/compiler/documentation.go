package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/promptdial/promptdial/pkg/models"
)

const defaultPersonaName = "Untitled Persona"

// Documentation renders the persona as a markdown configuration document:
// settings tables, optional custom blocks, a prose summary and a JSON echo.
// It never fails; unknown enum values fall back to their balanced wording.
func Documentation(p *models.Persona) string {
	if p == nil {
		p = &models.Persona{}
	}

	var b strings.Builder
	name := displayName(p)

	fmt.Fprintf(&b, "# %s - System Prompt Configuration\n\n", name)
	fmt.Fprintf(&b, "This document describes how the AI assistant \"%s\" should communicate, including its response style, tone, structure and advanced preferences.\n\n", name)

	writeDialTable(&b, "Response Style", responseStyleDials, p)
	writeDialTable(&b, "Tone & Personality", toneDials, p)
	writeStructureTable(&b, p)
	writeAdvancedTable(&b, p)

	if s := strings.TrimSpace(p.CustomInstructions); s != "" {
		fmt.Fprintf(&b, "## Custom Instructions\n\n%s\n\n", s)
	}
	if s := strings.TrimSpace(p.CustomStyle); s != "" {
		fmt.Fprintf(&b, "## Custom Style\n\n%s\n\n", s)
	}

	b.WriteString("## Summary\n\n")
	b.WriteString(summary(p))
	b.WriteString("\n\n")

	b.WriteString("## Configuration JSON\n\n```json\n")
	b.WriteString(configJSON(p))
	b.WriteString("```\n")

	return b.String()
}

func displayName(p *models.Persona) string {
	if n := strings.TrimSpace(p.Name); n != "" {
		return n
	}
	return defaultPersonaName
}

func writeDialTable(b *strings.Builder, heading string, dials []dial, p *models.Persona) {
	fmt.Fprintf(b, "## %s\n\n", heading)
	b.WriteString("| Setting | Value | Level | Description |\n")
	b.WriteString("|---------|-------|-------|-------------|\n")
	for _, d := range dials {
		v := d.get(p)
		fmt.Fprintf(b, "| %s | %d | %s | %s |\n", d.title, v, Classify(v).Label(), d.describe.For(v))
	}
	b.WriteString("\n")
}

func enabledMark(on bool) string {
	if on {
		return "✅ Enabled"
	}
	return "❌ Disabled"
}

func writeStructureTable(b *strings.Builder, p *models.Persona) {
	b.WriteString("## Response Structure\n\n")
	b.WriteString("| Feature | Status | Behavior |\n")
	b.WriteString("|---------|--------|----------|\n")
	for _, f := range structureFlags {
		on := f.get(p)
		behavior := f.disabled
		if on {
			behavior = f.enabled
		}
		fmt.Fprintf(b, "| %s | %s | %s |\n", f.title, enabledMark(on), behavior)
	}
	b.WriteString("\n")
}

func writeAdvancedTable(b *strings.Builder, p *models.Persona) {
	b.WriteString("## Advanced Settings\n\n")
	b.WriteString("| Setting | Value | Description |\n")
	b.WriteString("|---------|-------|-------------|\n")

	ik := p.IndustryKnowledge
	fmt.Fprintf(b, "| %s | %d (%s) | %s |\n", industryKnowledgeDial.title, ik, Classify(ik).Label(), industryKnowledgeDial.describe.For(ik))
	fmt.Fprintf(b, "| Response Length | %s | %s |\n", responseLengthChoice.value(p.ResponseLength), responseLengthChoice.describe(p.ResponseLength))
	fmt.Fprintf(b, "| Perspective | %s | %s |\n", perspectiveChoice.value(p.Perspective), perspectiveChoice.describe(p.Perspective))
	fmt.Fprintf(b, "| Target Audience | %s | %s |\n", audienceChoice.value(p.Audience), audienceChoice.describe(p.Audience))
	fmt.Fprintf(b, "| Explanation Style | %s | %s |\n", explanationChoice.value(p.ExplanationStyle), explanationChoice.describe(p.ExplanationStyle))

	for _, pr := range priorities {
		mark := "⚪ Standard"
		if pr.get(p) {
			mark = "✅ High Priority"
		}
		fmt.Fprintf(b, "| %s | %s | %s |\n", pr.title, mark, pr.about)
	}
	b.WriteString("\n")
}

// Summary phrasing tables. These re-derive coarse descriptors through Classify
// with their own wording, separate from the tables above.
var (
	summaryFormality  = threeWay("casual", "balanced", "formal")
	summaryTechnical  = threeWay("simplified", "moderately technical", "technical")
	summaryEnthusiasm = threeWay("measured", "warm", "enthusiastic")
	summaryEmpathy    = threeWay("objective", "considerate", "empathetic")
	summaryConfidence = threeWay("cautious", "balanced", "confident")
	summaryDetail     = threeWay("concise", "moderately detailed", "detailed")
)

var summaryAudience = map[string]string{
	models.AudienceGenZ:       "Gen Z readers",
	models.AudienceMillennial: "Millennial readers",
	models.AudienceGenX:       "Gen X readers",
	models.AudienceBoomer:     "Baby Boomer readers",
	models.AudienceSenior:     "senior readers",
	models.AudienceMixed:      "a broad, mixed audience",
}

func summary(p *models.Persona) string {
	var s strings.Builder
	fmt.Fprintf(&s, "%s communicates in a %s, %s style with %s responses. ",
		displayName(p),
		summaryFormality.For(p.FormalityLevel),
		summaryTechnical.For(p.TechnicalDepth),
		summaryDetail.For(p.DetailLevel))
	fmt.Fprintf(&s, "The tone is %s and %s, and statements are delivered in a %s manner.",
		summaryEnthusiasm.For(p.Enthusiasm),
		summaryEmpathy.For(p.Empathy),
		summaryConfidence.For(p.Confidence))
	if Classify(p.Humor) >= High {
		s.WriteString(" Humor is used to keep the conversation engaging.")
	}
	audience, ok := summaryAudience[p.Audience]
	if !ok {
		audience = summaryAudience[models.AudienceMixed]
	}
	fmt.Fprintf(&s, " Responses are written for %s.", audience)
	return s.String()
}

type responseStyleJSON struct {
	DetailLevel     int `json:"detail_level"`
	FormalityLevel  int `json:"formality_level"`
	TechnicalDepth  int `json:"technical_depth"`
	CreativityLevel int `json:"creativity_level"`
	Verbosity       int `json:"verbosity"`
}

type toneJSON struct {
	Enthusiasm int `json:"enthusiasm"`
	Empathy    int `json:"empathy"`
	Confidence int `json:"confidence"`
	Humor      int `json:"humor"`
}

type structureJSON struct {
	UseExamples               bool `json:"use_examples"`
	UseBulletPoints           bool `json:"use_bullet_points"`
	UseNumberedLists          bool `json:"use_numbered_lists"`
	IncludeCodeSamples        bool `json:"include_code_samples"`
	IncludeAnalogies          bool `json:"include_analogies"`
	IncludeVisualDescriptions bool `json:"include_visual_descriptions"`
	IncludeTables             bool `json:"include_tables"`
	IncludeSnippets           bool `json:"include_snippets"`
	IncludeExternalReferences bool `json:"include_external_references"`
	ShowThoughtProcess        bool `json:"show_thought_process"`
	IncludeStepByStep         bool `json:"include_step_by_step"`
	IncludeSummary            bool `json:"include_summary"`
}

type advancedJSON struct {
	IndustryKnowledge           int    `json:"industry_knowledge"`
	ResponseLength              string `json:"response_length"`
	Perspective                 string `json:"perspective"`
	Audience                    string `json:"audience"`
	ExplanationStyle            string `json:"explanation_style"`
	PrioritizeAccuracy          bool   `json:"prioritize_accuracy"`
	PrioritizeSpeed             bool   `json:"prioritize_speed"`
	PrioritizeClarity           bool   `json:"prioritize_clarity"`
	PrioritizeComprehensiveness bool   `json:"prioritize_comprehensiveness"`
	CustomInstructions          string `json:"custom_instructions"`
	CustomStyle                 string `json:"custom_style"`
}

type documentJSON struct {
	ResponseStyle     responseStyleJSON `json:"response_style"`
	TonePersonality   toneJSON          `json:"tone_personality"`
	ResponseStructure structureJSON     `json:"response_structure"`
	AdvancedSettings  advancedJSON      `json:"advanced_settings"`
}

func configJSON(p *models.Persona) string {
	doc := documentJSON{
		ResponseStyle: responseStyleJSON{
			DetailLevel:     p.DetailLevel,
			FormalityLevel:  p.FormalityLevel,
			TechnicalDepth:  p.TechnicalDepth,
			CreativityLevel: p.CreativityLevel,
			Verbosity:       p.Verbosity,
		},
		TonePersonality: toneJSON{
			Enthusiasm: p.Enthusiasm,
			Empathy:    p.Empathy,
			Confidence: p.Confidence,
			Humor:      p.Humor,
		},
		ResponseStructure: structureJSON{
			UseExamples:               p.UseExamples,
			UseBulletPoints:           p.UseBulletPoints,
			UseNumberedLists:          p.UseNumberedLists,
			IncludeCodeSamples:        p.IncludeCodeSamples,
			IncludeAnalogies:          p.IncludeAnalogies,
			IncludeVisualDescriptions: p.IncludeVisualDescriptions,
			IncludeTables:             p.IncludeTables,
			IncludeSnippets:           p.IncludeSnippets,
			IncludeExternalReferences: p.IncludeExternalReferences,
			ShowThoughtProcess:        p.ShowThoughtProcess,
			IncludeStepByStep:         p.IncludeStepByStep,
			IncludeSummary:            p.IncludeSummary,
		},
		AdvancedSettings: advancedJSON{
			IndustryKnowledge:           p.IndustryKnowledge,
			ResponseLength:              p.ResponseLength,
			Perspective:                 p.Perspective,
			Audience:                    p.Audience,
			ExplanationStyle:            p.ExplanationStyle,
			PrioritizeAccuracy:          p.PrioritizeAccuracy,
			PrioritizeSpeed:             p.PrioritizeSpeed,
			PrioritizeClarity:           p.PrioritizeClarity,
			PrioritizeComprehensiveness: p.PrioritizeComprehensiveness,
			CustomInstructions:          p.CustomInstructions,
			CustomStyle:                 p.CustomStyle,
		},
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	// Plain structs of ints, bools and strings always encode.
	_ = enc.Encode(doc)
	return buf.String()
}
