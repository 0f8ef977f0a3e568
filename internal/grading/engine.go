package grading

import "fmt"

// Band maps a minimum percentage to a grade label.
type Band struct {
	Min   float64
	Label string
}

// Bands are evaluated from highest to lowest; the first band whose Min is
// not above the percentage wins. Anything below the last band fails.
var Bands = []Band{
	{Min: 90, Label: "A+ - Excellent"},
	{Min: 80, Label: "A - Very Good"},
	{Min: 70, Label: "B - Good"},
	{Min: 60, Label: "C - Average"},
}

const FailLabel = "F - Fail"

// Report is the outcome of scoring one submission against an answer key.
type Report struct {
	Correct    int
	Total      int
	Percentage float64
	Grade      string
}

// Score compares answers positionally against key. Keys beyond the end of
// answers count as incorrect. An empty key scores 0%.
func Score(key, answers []string) Report {
	r := Report{Total: len(key)}
	for i, want := range key {
		if i < len(answers) && answers[i] == want {
			r.Correct++
		}
	}
	if r.Total > 0 {
		r.Percentage = float64(r.Correct) / float64(r.Total) * 100
	}
	r.Grade = Grade(r.Percentage)
	return r
}

// Grade returns the label for percentage p.
func Grade(p float64) string {
	for _, b := range Bands {
		if p >= b.Min {
			return b.Label
		}
	}
	return FailLabel
}

// Fraction renders the raw score, e.g. "2/2".
func (r Report) Fraction() string { return fmt.Sprintf("%d/%d", r.Correct, r.Total) }

// PercentText renders the percentage with one fractional digit, e.g. "50.0%".
func (r Report) PercentText() string { return fmt.Sprintf("%.1f%%", r.Percentage) }

// Summary is the text stored on the result outcome: "50.0% - F - Fail".
func (r Report) Summary() string { return r.PercentText() + " - " + r.Grade }
