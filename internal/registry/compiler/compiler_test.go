package compiler

import (
	"strings"
	"testing"

	"github.com/promptdial/promptdial/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		value int
		want  Band
		label string
	}{
		{-50, VeryLow, "Very Low"},
		{0, VeryLow, "Very Low"},
		{19, VeryLow, "Very Low"},
		{20, Low, "Low"},
		{39, Low, "Low"},
		{40, Moderate, "Moderate"},
		{59, Moderate, "Moderate"},
		{60, High, "High"},
		{79, High, "High"},
		{80, VeryHigh, "Very High"},
		{100, VeryHigh, "Very High"},
		{250, VeryHigh, "Very High"},
	}

	for _, tt := range tests {
		got := Classify(tt.value)
		assert.Equal(t, tt.want, got, "value %d", tt.value)
		assert.Equal(t, tt.label, got.Label(), "value %d", tt.value)
	}
}

func TestPhrasing_ThreeWay(t *testing.T) {
	p := threeWay("low", "mid", "high")
	assert.Equal(t, "low", p.For(0))
	assert.Equal(t, "low", p.For(39))
	assert.Equal(t, "mid", p.For(40))
	assert.Equal(t, "mid", p.For(59))
	assert.Equal(t, "high", p.For(60))
	assert.Equal(t, "high", p.For(100))
}

func basePersona() *models.Persona {
	return &models.Persona{
		Name:              "Friendly Loan Officer",
		DetailLevel:       50,
		FormalityLevel:    50,
		TechnicalDepth:    50,
		CreativityLevel:   50,
		Verbosity:         50,
		Enthusiasm:        50,
		Empathy:           50,
		Confidence:        50,
		Humor:             50,
		IndustryKnowledge: 50,
		ResponseLength:    models.ResponseLengthAuto,
		Perspective:       models.PerspectiveMixed,
		Audience:          models.AudienceMixed,
		ExplanationStyle:  models.ExplanationDirect,
		IncludeSummary:    true,
	}
}

func TestDocumentation_EndToEndScenario(t *testing.T) {
	p := basePersona()
	p.DetailLevel = 10
	p.FormalityLevel = 90
	p.UseBulletPoints = true
	p.UseExamples = false

	out := Documentation(p)

	assert.Contains(t, out, "| Detail Level | 10 | Very Low | Keeps responses concise, covering only the essentials |")
	assert.Contains(t, out, "| Formality | 90 | Very High | Uses formal, polished business language |")
	assert.Contains(t, out, "| Bullet Points | ✅ Enabled | Organizes information with bullet points |")
	assert.Contains(t, out, "| Examples | ❌ Disabled | Explains without concrete examples |")
}

func TestDocumentation_SectionOrder(t *testing.T) {
	p := basePersona()
	p.CustomInstructions = "Always mention current rates."
	p.CustomStyle = "Sign off with a smile."

	out := Documentation(p)
	headings := []string{
		"# Friendly Loan Officer - System Prompt Configuration",
		"## Response Style",
		"## Tone & Personality",
		"## Response Structure",
		"## Advanced Settings",
		"## Custom Instructions",
		"## Custom Style",
		"## Summary",
		"```json",
	}
	last := -1
	for _, h := range headings {
		idx := strings.Index(out, h)
		require.GreaterOrEqual(t, idx, 0, "missing %q", h)
		assert.Greater(t, idx, last, "%q out of order", h)
		last = idx
	}
	assert.Contains(t, out, `"response_style": {`)
	assert.Contains(t, out, `"custom_instructions": "Always mention current rates."`)
}

func TestDocumentation_OmitsBlankCustomBlocks(t *testing.T) {
	p := basePersona()
	p.CustomInstructions = "   "

	out := Documentation(p)
	assert.NotContains(t, out, "## Custom Instructions")
	assert.NotContains(t, out, "## Custom Style")
}

func TestDocumentation_Priorities(t *testing.T) {
	p := basePersona()
	p.PrioritizeClarity = true

	out := Documentation(p)
	assert.Contains(t, out, "| Prioritize Clarity | ✅ High Priority |")
	assert.Contains(t, out, "| Prioritize Speed | ⚪ Standard |")
}

func TestDocumentation_SummaryDescriptors(t *testing.T) {
	p := basePersona()
	p.FormalityLevel = 10
	p.TechnicalDepth = 90
	p.Enthusiasm = 85
	p.Empathy = 5
	p.Confidence = 70
	p.Humor = 80
	p.Audience = models.AudienceGenZ

	out := Documentation(p)
	assert.Contains(t, out, "in a casual, technical style")
	assert.Contains(t, out, "The tone is enthusiastic and objective")
	assert.Contains(t, out, "in a confident manner")
	assert.Contains(t, out, "Humor is used")
	assert.Contains(t, out, "written for Gen Z readers")

	p.Humor = 10
	assert.NotContains(t, Documentation(p), "Humor is used")
}

func TestCompiler_EnumTotality(t *testing.T) {
	cases := []struct {
		name   string
		values []string
		set    func(*models.Persona, string)
		choice choice
	}{
		{"responseLength", models.ResponseLengths, func(p *models.Persona, v string) { p.ResponseLength = v }, responseLengthChoice},
		{"perspective", models.Perspectives, func(p *models.Persona, v string) { p.Perspective = v }, perspectiveChoice},
		{"audience", models.Audiences, func(p *models.Persona, v string) { p.Audience = v }, audienceChoice},
		{"explanationStyle", models.ExplanationStyles, func(p *models.Persona, v string) { p.ExplanationStyle = v }, explanationChoice},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen := map[string]bool{}
			for _, v := range tc.values {
				text := tc.choice.describe(v)
				require.NotEmpty(t, text, "value %q", v)
				assert.False(t, seen[text], "value %q shares wording with another value", v)
				seen[text] = true

				p := basePersona()
				tc.set(p, v)
				assert.Contains(t, Documentation(p), text)
				assert.NotEmpty(t, Instructions(p))
			}

			// Unknown and empty values render with the fallback wording.
			for _, v := range []string{"", "not-a-value"} {
				assert.Equal(t, tc.choice.describe(tc.choice.fallback), tc.choice.describe(v))
			}
		})
	}

	for _, v := range models.ResponseLengths {
		assert.NotEmpty(t, responseLengthDirective.describe(v))
	}
}

func TestCompiler_Deterministic(t *testing.T) {
	p := basePersona()
	p.Specializations = []string{"FHA loans", "first-time buyers"}
	p.Region = "southwest"

	assert.Equal(t, Documentation(p), Documentation(p))
	assert.Equal(t, Instructions(p), Instructions(p))
	assert.Equal(t, AvatarPrompt(p), AvatarPrompt(p))
}

func TestCompiler_ZeroValueAndNil(t *testing.T) {
	assert.Contains(t, Documentation(nil), "# Untitled Persona - System Prompt Configuration")
	assert.Contains(t, Instructions(&models.Persona{}), "You are Untitled Persona, a helpful assistant.")
	assert.NotEmpty(t, AvatarPrompt(nil))
}

func diffLines(a, b string) []string {
	al := strings.Split(a, "\n")
	bl := strings.Split(b, "\n")
	var out []string
	for i := 0; i < len(al) && i < len(bl); i++ {
		if al[i] != bl[i] {
			out = append(out, bl[i])
		}
	}
	return out
}

func TestCompiler_StructureFlagsIndependent(t *testing.T) {
	for _, f := range structureFlags {
		if f.title == "Summary" {
			continue
		}
		t.Run(f.title, func(t *testing.T) {
			off := basePersona()
			on := basePersona()
			setFlag(t, on, f.title)
			require.True(t, f.get(on))

			// Documentation: the table row and the JSON echo line change.
			changed := diffLines(Documentation(off), Documentation(on))
			require.Len(t, changed, 2)
			assert.Contains(t, changed[0], "| "+f.title+" | ✅ Enabled | "+f.enabled)
			assert.Contains(t, changed[1], "true")

			// Instructions: exactly one bullet is added.
			offLines := strings.Split(Instructions(off), "\n")
			onLines := strings.Split(Instructions(on), "\n")
			require.Len(t, onLines, len(offLines)+1)
			added := -1
			for i := range offLines {
				if offLines[i] != onLines[i] {
					added = i
					break
				}
			}
			if added == -1 {
				added = len(offLines)
			}
			assert.Equal(t, "- "+f.directive, onLines[added])
			rest := append(append([]string{}, onLines[:added]...), onLines[added+1:]...)
			assert.Equal(t, offLines, rest)
		})
	}
}

func setFlag(t *testing.T, p *models.Persona, title string) {
	t.Helper()
	switch title {
	case "Examples":
		p.UseExamples = true
	case "Bullet Points":
		p.UseBulletPoints = true
	case "Numbered Lists":
		p.UseNumberedLists = true
	case "Code Samples":
		p.IncludeCodeSamples = true
	case "Analogies":
		p.IncludeAnalogies = true
	case "Visual Descriptions":
		p.IncludeVisualDescriptions = true
	case "Tables":
		p.IncludeTables = true
	case "Snippets":
		p.IncludeSnippets = true
	case "External References":
		p.IncludeExternalReferences = true
	case "Thought Process":
		p.ShowThoughtProcess = true
	case "Step-by-Step":
		p.IncludeStepByStep = true
	default:
		t.Fatalf("unknown flag %q", title)
	}
}

func TestInstructions_Layout(t *testing.T) {
	p := basePersona()
	p.JobRole = "Loan Officer"
	p.YearsExperience = 12
	p.Specializations = []string{"FHA loans", "VA loans", "refinancing"}
	p.Region = "southwest"
	p.State = "AZ"
	p.ResponseLength = models.ResponseLengthShort
	p.CustomInstructions = "Never quote exact rates."
	p.DetailLevel = 95

	out := Instructions(p)
	assert.True(t, strings.HasPrefix(out, "You are Friendly Loan Officer, a Loan Officer with 12 years of experience specializing in FHA loans, VA loans and refinancing."))
	assert.Contains(t, out, "- Detail Level: Be exhaustive.")
	assert.Contains(t, out, "southwest region (AZ)")
	assert.Contains(t, out, "Response length: Keep every response short")
	assert.Contains(t, out, "Additional instructions: Never quote exact rates.")
	assert.Contains(t, out, "- End every response with a brief summary.")
	assert.NotContains(t, out, "bullet points")

	p.Region = models.RegionNone
	assert.NotContains(t, Instructions(p), "Regional context")
}

func TestInstructions_FiveWayDials(t *testing.T) {
	seen := map[string]bool{}
	for _, v := range []int{0, 20, 40, 60, 80} {
		p := basePersona()
		p.FormalityLevel = v
		out := Instructions(p)
		line := ""
		for _, l := range strings.Split(out, "\n") {
			if strings.HasPrefix(l, "- Formality:") {
				line = l
			}
		}
		require.NotEmpty(t, line)
		assert.False(t, seen[line], "band at %d repeats wording", v)
		seen[line] = true
	}
}

func TestAvatarPrompt(t *testing.T) {
	p := basePersona()
	p.Gender = "female"
	p.Enthusiasm = 90
	p.TechnicalDepth = 70
	p.Region = "northeast"

	out := AvatarPrompt(p)
	assert.Contains(t, out, "female professional")
	assert.Contains(t, out, "vibrant palette")
	assert.Contains(t, out, "northeast region")
	assert.Contains(t, out, "charts")
	assert.LessOrEqual(t, len([]rune(out)), MaxAvatarPromptLength)

	p.JobRole = strings.Repeat("mortgage specialist ", 80)
	long := AvatarPrompt(p)
	assert.Len(t, []rune(long), MaxAvatarPromptLength)
	assert.True(t, strings.HasSuffix(long, "..."))
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"My Cool Persona!!":        "my-cool-persona",
		"  multiple   spaces ":     "multiple-spaces",
		"a---b":                    "a-b",
		"- leading and trailing -": "leading-and-trailing",
		"Café Crème":               "cafe-creme",
		"snake_case stays":         "snake_case-stays",
		"":                         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), "Slug(%q)", in)
	}
}
