package services

import "strings"

type scoreKey struct {
	value       string
	hasComment  bool
	hasEvidence bool
}

// scoreFractions maps (answer value, comment present, evidence present)
// to the fraction of the question's max score awarded. Combinations
// not listed score 0.
var scoreFractions = map[scoreKey]float64{
	{AnswerYes, true, true}:   1.00,
	{AnswerYes, false, true}:  0.80,
	{AnswerYes, true, false}:  0.60,
	{AnswerYes, false, false}: 0.50,

	{AnswerPartial, true, true}:   0.80,
	{AnswerPartial, false, true}:  0.80,
	{AnswerPartial, true, false}:  0.60,
	{AnswerPartial, false, false}: 0.50,

	{AnswerNo, true, true}:   0.60,
	{AnswerNo, false, true}:  0.50,
	{AnswerNo, true, false}:  0.30,
	{AnswerNo, false, false}: 0.20,

	{AnswerNotApplicable, false, true}: 0.50,
	{AnswerNotApplicable, true, false}: 0.30,
}

// AnswerScore maps an answer to its score. Deterministic and pure:
// the result is always within [0, maxScore], and 0 when maxScore is
// not positive or the combination has no defined fraction.
func AnswerScore(value string, hasComment, hasEvidence bool, maxScore float64) float64 {
	if maxScore <= 0 {
		return 0
	}
	return scoreFractions[scoreKey{value, hasComment, hasEvidence}] * maxScore
}

// HasContent reports whether a free-text field counts as present:
// non-empty after trimming whitespace.
func HasContent(s string) bool {
	return strings.TrimSpace(s) != ""
}
