package compiler

import "github.com/promptdial/promptdial/pkg/models"

// dial describes one 0-100 setting and how each compiler mode phrases it.
type dial struct {
	title string
	get   func(*models.Persona) int

	// describe is the three-way wording used in the documentation tables.
	describe Phrasing
	// direct is the five-way imperative used in instruction mode.
	direct Phrasing
}

var responseStyleDials = []dial{
	{
		title:    "Detail Level",
		get:      func(p *models.Persona) int { return p.DetailLevel },
		describe: threeWay("Keeps responses concise, covering only the essentials", "Balances key points with supporting detail", "Provides thorough, in-depth explanations"),
		direct: Phrasing{
			"Be extremely concise. Give only the single most important point.",
			"Keep detail light. Cover the main points without elaboration.",
			"Give a balanced level of detail: key points plus brief support.",
			"Be detailed. Explain the reasoning and include supporting specifics.",
			"Be exhaustive. Cover every relevant detail, caveat and edge case.",
		},
	},
	{
		title:    "Formality",
		get:      func(p *models.Persona) int { return p.FormalityLevel },
		describe: threeWay("Uses a relaxed, conversational tone", "Maintains a professional yet approachable tone", "Uses formal, polished business language"),
		direct: Phrasing{
			"Write very casually, like texting a friend. Contractions and slang are fine.",
			"Keep the tone casual and conversational.",
			"Use a professional but approachable tone.",
			"Use a formal, businesslike tone. Avoid slang and contractions.",
			"Use highly formal, polished language suitable for executive correspondence.",
		},
	},
	{
		title:    "Technical Depth",
		get:      func(p *models.Persona) int { return p.TechnicalDepth },
		describe: threeWay("Explains concepts in plain, non-technical language", "Introduces technical terms with brief explanations", "Uses precise technical terminology and industry detail"),
		direct: Phrasing{
			"Avoid all jargon. Explain everything in plain everyday words.",
			"Use simple language and define any technical term you must use.",
			"Use technical terms where helpful, with short explanations.",
			"Use industry terminology freely and go into technical specifics.",
			"Speak as an expert to experts: precise terminology, figures and mechanics.",
		},
	},
	{
		title:    "Creativity",
		get:      func(p *models.Persona) int { return p.CreativityLevel },
		describe: threeWay("Sticks to conventional, proven approaches", "Mixes standard approaches with fresh ideas", "Offers imaginative, original perspectives"),
		direct: Phrasing{
			"Stick strictly to conventional, by-the-book answers.",
			"Prefer standard approaches, with the occasional fresh angle.",
			"Balance proven approaches with some creative ideas.",
			"Be creative. Offer original framings and unexpected ideas.",
			"Be highly inventive. Use vivid metaphors and unconventional ideas.",
		},
	},
	{
		title:    "Verbosity",
		get:      func(p *models.Persona) int { return p.Verbosity },
		describe: threeWay("Uses as few words as possible", "Uses moderate length sentences and paragraphs", "Elaborates freely with rich wording"),
		direct: Phrasing{
			"Use as few words as possible. Short sentences only.",
			"Keep wording tight and economical.",
			"Use a moderate amount of wording.",
			"Elaborate freely with full sentences and transitions.",
			"Be expansive and richly worded in every answer.",
		},
	},
}

var toneDials = []dial{
	{
		title:    "Enthusiasm",
		get:      func(p *models.Persona) int { return p.Enthusiasm },
		describe: threeWay("Keeps a calm, even-keeled delivery", "Shows friendly, moderate energy", "Brings high energy and excitement"),
		direct: Phrasing{
			"Keep a flat, neutral delivery with no exclamation.",
			"Stay calm and understated.",
			"Show friendly, moderate energy.",
			"Be upbeat and energetic.",
			"Be extremely enthusiastic and excited in every reply!",
		},
	},
	{
		title:    "Empathy",
		get:      func(p *models.Persona) int { return p.Empathy },
		describe: threeWay("Stays objective and fact-focused", "Acknowledges feelings when relevant", "Leads with warmth and emotional understanding"),
		direct: Phrasing{
			"Stay strictly objective. Do not comment on feelings.",
			"Focus on facts, acknowledging feelings only briefly.",
			"Acknowledge the user's feelings when it is relevant.",
			"Show warmth and validate the user's concerns.",
			"Lead with deep empathy and emotional understanding before anything else.",
		},
	},
	{
		title:    "Confidence",
		get:      func(p *models.Persona) int { return p.Confidence },
		describe: threeWay("Hedges statements and notes uncertainty", "Speaks with balanced assurance", "Speaks decisively with strong conviction"),
		direct: Phrasing{
			"Be very tentative. Hedge statements and stress uncertainty.",
			"Be cautious and note where things may vary.",
			"Speak with balanced assurance.",
			"Speak confidently and give clear recommendations.",
			"Be completely decisive and authoritative in every statement.",
		},
	},
	{
		title:    "Humor",
		get:      func(p *models.Persona) int { return p.Humor },
		describe: threeWay("Keeps a serious, straightforward tone", "Adds occasional light humor", "Uses humor and wit frequently"),
		direct: Phrasing{
			"Do not use any humor.",
			"Keep humor to a rare, subtle minimum.",
			"Add occasional light humor where it fits.",
			"Use humor and playful wit regularly.",
			"Be very funny. Work jokes and wit into most replies.",
		},
	},
}

var industryKnowledgeDial = dial{
	title:    "Industry Knowledge",
	get:      func(p *models.Persona) int { return p.IndustryKnowledge },
	describe: threeWay("Relies on general knowledge", "References common industry practices", "Draws on deep industry expertise"),
	direct: Phrasing{
		"Rely on general knowledge only; avoid industry specifics.",
		"Mention industry basics where they help.",
		"Reference common industry practices and products.",
		"Draw on detailed industry knowledge, products and regulations.",
		"Demonstrate deep insider expertise: programs, guidelines, market trends.",
	},
}

// flag describes one structure toggle with its wording for both states and
// the directive emitted in instruction mode when enabled.
type flag struct {
	title     string
	get       func(*models.Persona) bool
	enabled   string
	disabled  string
	directive string
}

var structureFlags = []flag{
	{"Examples", func(p *models.Persona) bool { return p.UseExamples },
		"Includes concrete examples to illustrate points", "Explains without concrete examples",
		"Include concrete, real-world examples."},
	{"Bullet Points", func(p *models.Persona) bool { return p.UseBulletPoints },
		"Organizes information with bullet points", "Writes in flowing paragraphs instead of bullet points",
		"Organize key information with bullet points."},
	{"Numbered Lists", func(p *models.Persona) bool { return p.UseNumberedLists },
		"Uses numbered lists for ordered information", "Avoids numbered lists",
		"Use numbered lists for sequences and ranked items."},
	{"Code Samples", func(p *models.Persona) bool { return p.IncludeCodeSamples },
		"Includes code samples where relevant", "Leaves out code samples",
		"Include code samples or formulas where relevant."},
	{"Analogies", func(p *models.Persona) bool { return p.IncludeAnalogies },
		"Uses analogies to explain complex ideas", "Explains ideas literally without analogies",
		"Use analogies to make complex ideas relatable."},
	{"Visual Descriptions", func(p *models.Persona) bool { return p.IncludeVisualDescriptions },
		"Describes concepts in visual terms", "Keeps descriptions non-visual",
		"Describe concepts in vivid, visual terms."},
	{"Tables", func(p *models.Persona) bool { return p.IncludeTables },
		"Presents comparisons in tables", "Presents comparisons in prose",
		"Use tables to compare options or figures."},
	{"Snippets", func(p *models.Persona) bool { return p.IncludeSnippets },
		"Adds short quotable snippets", "Omits quotable snippets",
		"Add short, quotable snippets the reader can reuse."},
	{"External References", func(p *models.Persona) bool { return p.IncludeExternalReferences },
		"Points to external resources and references", "Does not cite external resources",
		"Point to reputable external resources and references."},
	{"Thought Process", func(p *models.Persona) bool { return p.ShowThoughtProcess },
		"Shows the reasoning behind answers", "Gives conclusions without showing reasoning",
		"Show your reasoning before giving the conclusion."},
	{"Step-by-Step", func(p *models.Persona) bool { return p.IncludeStepByStep },
		"Breaks processes into step-by-step instructions", "Describes processes at a high level",
		"Break processes into clear step-by-step instructions."},
	{"Summary", func(p *models.Persona) bool { return p.IncludeSummary },
		"Ends with a brief summary", "Ends without a separate summary",
		"End every response with a brief summary."},
}

// priority describes one of the four priority toggles.
type priority struct {
	title string
	get   func(*models.Persona) bool
	about string
}

var priorities = []priority{
	{"Prioritize Accuracy", func(p *models.Persona) bool { return p.PrioritizeAccuracy }, "Double-checks facts and figures before answering"},
	{"Prioritize Speed", func(p *models.Persona) bool { return p.PrioritizeSpeed }, "Gets to the answer quickly"},
	{"Prioritize Clarity", func(p *models.Persona) bool { return p.PrioritizeClarity }, "Favors the clearest possible wording"},
	{"Prioritize Comprehensiveness", func(p *models.Persona) bool { return p.PrioritizeComprehensiveness }, "Covers the topic completely"},
}

// choice maps the values of a closed enum to field-specific wording. Unknown
// and empty values fall back to the entry for fallback.
type choice struct {
	fallback string
	text     map[string]string
}

func (c choice) describe(value string) string {
	if t, ok := c.text[value]; ok {
		return t
	}
	return c.text[c.fallback]
}

// value returns the enum value as rendered, substituting the fallback for unknown input.
func (c choice) value(value string) string {
	if _, ok := c.text[value]; ok {
		return value
	}
	return c.fallback
}

var responseLengthChoice = choice{
	fallback: models.ResponseLengthAuto,
	text: map[string]string{
		models.ResponseLengthAuto:          "Adapts length to the complexity of each request",
		models.ResponseLengthShort:         "Keeps answers to a few sentences",
		models.ResponseLengthMedium:        "Aims for a few focused paragraphs",
		models.ResponseLengthLong:          "Provides extended, multi-section answers",
		models.ResponseLengthComprehensive: "Covers the topic exhaustively",
	},
}

var perspectiveChoice = choice{
	fallback: models.PerspectiveMixed,
	text: map[string]string{
		models.PerspectiveFirstPerson:  "Speaks in the first person (I, we)",
		models.PerspectiveSecondPerson: "Addresses the reader directly (you)",
		models.PerspectiveThirdPerson:  "Describes from a neutral third-person view",
		models.PerspectiveMixed:        "Shifts perspective as the context requires",
	},
}

var audienceChoice = choice{
	fallback: models.AudienceMixed,
	text: map[string]string{
		models.AudienceGenZ:       "Tailored for Gen Z: casual, fast-paced and digitally native",
		models.AudienceMillennial: "Tailored for Millennials: practical, authentic and tech-savvy",
		models.AudienceGenX:       "Tailored for Gen X: direct, skeptical of hype, values independence",
		models.AudienceBoomer:     "Tailored for Baby Boomers: respectful, thorough and relationship-driven",
		models.AudienceSenior:     "Tailored for seniors: patient, clear and free of jargon",
		models.AudienceMixed:      "Suitable for a broad, multi-generational audience",
	},
}

var explanationChoice = choice{
	fallback: models.ExplanationDirect,
	text: map[string]string{
		models.ExplanationDirect:     "States answers plainly and directly",
		models.ExplanationSocratic:   "Guides understanding through questions",
		models.ExplanationNarrative:  "Explains through stories and scenarios",
		models.ExplanationAnalytical: "Breaks topics down into structured analysis",
	},
}
