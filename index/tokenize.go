package index

import "strings"

// Tokenize lowercases text and splits it on whitespace.
// No stemming and no stop-word removal: sparse scores must be computed
// over exactly the tokens the corpus was indexed with.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}
