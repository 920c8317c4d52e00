package llm

// Sample categories accepted by GenerateSamples.
const (
	CategoryLoanProduct     = "loan-product"
	CategoryBorrowerPitch   = "borrower-pitch"
	CategoryDocumentRequest = "document-request"
)

// Categories lists every sample category in display order.
var Categories = []string{CategoryLoanProduct, CategoryBorrowerPitch, CategoryDocumentRequest}

type scenario struct {
	Title  string
	Prompt string
}

var scenarios = map[string][]scenario{
	CategoryLoanProduct: {
		{"FHA loan overview", "Explain the benefits of an FHA loan to a first-time homebuyer with a modest down payment."},
		{"Rate lock", "Explain what a rate lock is and when a borrower should consider locking their rate."},
		{"ARM vs fixed", "Compare an adjustable-rate mortgage with a 30-year fixed mortgage for a buyer planning to move in five years."},
	},
	CategoryBorrowerPitch: {
		{"Refinance outreach", "Write a short message to a past client explaining why now might be a good time to review a refinance."},
		{"Pre-approval pitch", "Convince a hesitant buyer to get pre-approved before they start touring homes."},
		{"Referral partner", "Introduce yourself to a local real estate agent and explain how you help their buyers close on time."},
	},
	CategoryDocumentRequest: {
		{"Income documents", "Ask a salaried borrower for their last two pay stubs and two years of W-2s."},
		{"Self-employed", "Request two years of tax returns and a year-to-date profit and loss statement from a self-employed borrower."},
		{"Gift letter", "Explain to a borrower why a gift letter is needed for their down payment and what it must include."},
	},
}
