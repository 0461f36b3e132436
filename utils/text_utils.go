package utils

import "strings"

// NormalizePhrase case-folds a user phrase and collapses runs of
// whitespace, so "Knee  Injury " and "knee injury" share one cache slot
// and one lexical comparison form.
func NormalizePhrase(p string) string {
	return strings.Join(strings.Fields(strings.ToLower(p)), " ")
}

// JoinPhrases joins a phrase list into the single string embedded per
// category, preserving the caller's order.
func JoinPhrases(phrases []string) string {
	return strings.Join(phrases, " ")
}
