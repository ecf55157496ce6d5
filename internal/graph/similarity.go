package graph

import "strings"

// minTokenLen is the shortest token length that counts toward overlap.
// Short words (articles, pronouns, connectives) dominate raw counts and
// carry no topical signal, so anything of four characters or fewer is dropped.
const minTokenLen = 5

// Overlap counts the distinct tokens shared by two note texts. It is a
// lexical heuristic, not semantic similarity: lowercase, split on
// whitespace, drop short tokens, intersect the resulting sets.
// Symmetric by construction.
func Overlap(a, b string) int {
	setA := tokenSet(a)
	if len(setA) == 0 {
		return 0
	}
	count := 0
	for tok := range tokenSet(b) {
		if _, ok := setA[tok]; ok {
			count++
		}
	}
	return count
}

func tokenSet(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		if len(tok) < minTokenLen {
			continue
		}
		out[tok] = struct{}{}
	}
	return out
}
