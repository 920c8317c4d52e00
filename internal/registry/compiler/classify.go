// Package compiler turns persona configurations into prompt text.
//
// Every function here is pure: the same persona always yields the same text.
package compiler

// Band is one of the five discrete levels a 0-100 dial falls into.
type Band int

const (
	VeryLow Band = iota
	Low
	Moderate
	High
	VeryHigh
)

var bandLabels = [...]string{
	VeryLow:  "Very Low",
	Low:      "Low",
	Moderate: "Moderate",
	High:     "High",
	VeryHigh: "Very High",
}

// Label returns the display name of the band.
func (b Band) Label() string {
	if b < VeryLow || b > VeryHigh {
		return bandLabels[Moderate]
	}
	return bandLabels[b]
}

func (b Band) String() string { return b.Label() }

// Classify maps a dial value to its band. Values are not clamped: anything
// below 20 (negatives included) is VeryLow and anything from 80 up is VeryHigh.
func Classify(value int) Band {
	switch {
	case value < 20:
		return VeryLow
	case value < 40:
		return Low
	case value < 60:
		return Moderate
	case value < 80:
		return High
	default:
		return VeryHigh
	}
}

// Phrasing maps each band to a sentence. Call sites own their tables; the
// thresholds live only in Classify.
type Phrasing [5]string

// For returns the phrase for value.
func (p Phrasing) For(value int) string {
	return p[Classify(value)]
}

// threeWay builds a Phrasing from low, mid and high sentences.
func threeWay(low, mid, high string) Phrasing {
	return Phrasing{low, low, mid, high, high}
}
