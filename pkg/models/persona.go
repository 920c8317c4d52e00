package models

import "time"

// Response length options.
const (
	ResponseLengthAuto          = "auto"
	ResponseLengthShort         = "short"
	ResponseLengthMedium        = "medium"
	ResponseLengthLong          = "long"
	ResponseLengthComprehensive = "comprehensive"
)

// Perspective options.
const (
	PerspectiveFirstPerson  = "1st-person"
	PerspectiveSecondPerson = "2nd-person"
	PerspectiveThirdPerson  = "3rd-person"
	PerspectiveMixed        = "mixed"
)

// Audience options.
const (
	AudienceGenZ       = "gen-z"
	AudienceMillennial = "millennial"
	AudienceGenX       = "gen-x"
	AudienceBoomer     = "boomer"
	AudienceSenior     = "senior"
	AudienceMixed      = "mixed"
)

// Explanation style options.
const (
	ExplanationDirect     = "direct"
	ExplanationSocratic   = "socratic"
	ExplanationNarrative  = "narrative"
	ExplanationAnalytical = "analytical"
)

// RegionNone disables the regional context clause.
const RegionNone = "none"

// ResponseLengths lists every valid responseLength value.
var ResponseLengths = []string{ResponseLengthAuto, ResponseLengthShort, ResponseLengthMedium, ResponseLengthLong, ResponseLengthComprehensive}

// Perspectives lists every valid perspective value.
var Perspectives = []string{PerspectiveFirstPerson, PerspectiveSecondPerson, PerspectiveThirdPerson, PerspectiveMixed}

// Audiences lists every valid audience value.
var Audiences = []string{AudienceGenZ, AudienceMillennial, AudienceGenX, AudienceBoomer, AudienceSenior, AudienceMixed}

// ExplanationStyles lists every valid explanationStyle value.
var ExplanationStyles = []string{ExplanationDirect, ExplanationSocratic, ExplanationNarrative, ExplanationAnalytical}

// Persona is a stored prompt configuration. Dial fields are 0-100 and are not range checked.
type Persona struct {
	_ struct{} `json:"-" additionalProperties:"true"`

	ID        string    `json:"id" yaml:"id,omitempty" doc:"Opaque time-based identifier" required:"false"`
	Name      string    `json:"name" yaml:"name" doc:"Display name" example:"Friendly Loan Officer" required:"false"`
	Slug      string    `json:"slug" yaml:"slug,omitempty" doc:"URL-safe name, recomputed on save" required:"false"`
	Emoji     string    `json:"emoji,omitempty" yaml:"emoji,omitempty" required:"false"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt,omitempty" required:"false"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty" required:"false"`

	DetailLevel       int `json:"detailLevel" yaml:"detailLevel" required:"false"`
	FormalityLevel    int `json:"formalityLevel" yaml:"formalityLevel" required:"false"`
	TechnicalDepth    int `json:"technicalDepth" yaml:"technicalDepth" required:"false"`
	CreativityLevel   int `json:"creativityLevel" yaml:"creativityLevel" required:"false"`
	Verbosity         int `json:"verbosity" yaml:"verbosity" required:"false"`
	Enthusiasm        int `json:"enthusiasm" yaml:"enthusiasm" required:"false"`
	Empathy           int `json:"empathy" yaml:"empathy" required:"false"`
	Confidence        int `json:"confidence" yaml:"confidence" required:"false"`
	Humor             int `json:"humor" yaml:"humor" required:"false"`
	IndustryKnowledge int `json:"industryKnowledge" yaml:"industryKnowledge" required:"false"`

	UseExamples               bool `json:"useExamples" yaml:"useExamples" required:"false"`
	UseBulletPoints           bool `json:"useBulletPoints" yaml:"useBulletPoints" required:"false"`
	UseNumberedLists          bool `json:"useNumberedLists" yaml:"useNumberedLists" required:"false"`
	IncludeCodeSamples        bool `json:"includeCodeSamples" yaml:"includeCodeSamples" required:"false"`
	IncludeAnalogies          bool `json:"includeAnalogies" yaml:"includeAnalogies" required:"false"`
	IncludeVisualDescriptions bool `json:"includeVisualDescriptions" yaml:"includeVisualDescriptions" required:"false"`
	IncludeTables             bool `json:"includeTables" yaml:"includeTables" required:"false"`
	IncludeSnippets           bool `json:"includeSnippets" yaml:"includeSnippets" required:"false"`
	IncludeExternalReferences bool `json:"includeExternalReferences" yaml:"includeExternalReferences" required:"false"`
	ShowThoughtProcess        bool `json:"showThoughtProcess" yaml:"showThoughtProcess" required:"false"`
	IncludeStepByStep         bool `json:"includeStepByStep" yaml:"includeStepByStep" required:"false"`
	IncludeSummary            bool `json:"includeSummary" yaml:"includeSummary" required:"false"`

	ResponseLength   string `json:"responseLength" yaml:"responseLength" required:"false"`
	Perspective      string `json:"perspective" yaml:"perspective" required:"false"`
	Audience         string `json:"audience" yaml:"audience" required:"false"`
	ExplanationStyle string `json:"explanationStyle" yaml:"explanationStyle" required:"false"`

	PrioritizeAccuracy          bool `json:"prioritizeAccuracy" yaml:"prioritizeAccuracy" required:"false"`
	PrioritizeSpeed             bool `json:"prioritizeSpeed" yaml:"prioritizeSpeed" required:"false"`
	PrioritizeClarity           bool `json:"prioritizeClarity" yaml:"prioritizeClarity" required:"false"`
	PrioritizeComprehensiveness bool `json:"prioritizeComprehensiveness" yaml:"prioritizeComprehensiveness" required:"false"`

	CustomInstructions string `json:"customInstructions,omitempty" yaml:"customInstructions,omitempty" required:"false"`
	CustomStyle        string `json:"customStyle,omitempty" yaml:"customStyle,omitempty" required:"false"`

	// Persona details consumed by the instruction compiler and the avatar prompt.
	JobRole         string   `json:"jobRole,omitempty" yaml:"jobRole,omitempty" example:"Loan Officer" required:"false"`
	YearsExperience int      `json:"yearsExperience,omitempty" yaml:"yearsExperience,omitempty" required:"false"`
	Specializations []string `json:"specializations,omitempty" yaml:"specializations,omitempty" required:"false"`
	Region          string   `json:"region,omitempty" yaml:"region,omitempty" example:"southwest" required:"false"`
	State           string   `json:"state,omitempty" yaml:"state,omitempty" example:"AZ" required:"false"`
	Gender          string   `json:"gender,omitempty" yaml:"gender,omitempty" required:"false"`

	// SystemPrompt is regenerated by the server on every save.
	SystemPrompt string `json:"systemPrompt,omitempty" yaml:"systemPrompt,omitempty" required:"false"`

	IsPublished  bool       `json:"isPublished,omitempty" yaml:"-" required:"false"`
	PublishedURL string     `json:"publishedUrl,omitempty" yaml:"-" required:"false"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty" yaml:"-" required:"false"`
	ImageURL     string     `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty" required:"false"`
	Description  string     `json:"description,omitempty" yaml:"description,omitempty" required:"false"`
}

// PublicPersonality is the read-only projection exposed for published personas.
type PublicPersonality struct {
	ID           string    `json:"id" required:"false"`
	Name         string    `json:"name" required:"false"`
	Emoji        string    `json:"emoji,omitempty" required:"false"`
	Slug         string    `json:"slug" required:"false"`
	SystemPrompt string    `json:"systemPrompt" required:"false"`
	CreatedAt    time.Time `json:"createdAt" required:"false"`
	Username     string    `json:"username" required:"false"`
}

// Project returns the public projection of p for username.
func (p *Persona) Project(username string) PublicPersonality {
	return PublicPersonality{
		ID:           p.ID,
		Name:         p.Name,
		Emoji:        p.Emoji,
		Slug:         p.Slug,
		SystemPrompt: p.SystemPrompt,
		CreatedAt:    p.CreatedAt,
		Username:     username,
	}
}
