// Package match implements the fuzzy string comparison used by the niche and
// city resolvers: a Dice coefficient over character bigrams of the normalized
// (lowercased, accent-stripped) inputs.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s and strips diacritics (NFD decomposition with
// combining marks removed), so that "São" and "sao" compare equal.
func Normalize(s string) string {
	lower := strings.ToLower(s)
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(stripper, lower)
	if err != nil {
		return lower
	}
	return out
}

// Bigrams returns the ordered overlapping 2-rune substrings of the normalized
// form of s. Inputs shorter than 2 runes yield no bigrams.
func Bigrams(s string) []string {
	r := []rune(Normalize(s))
	if len(r) < 2 {
		return nil
	}
	grams := make([]string, 0, len(r)-1)
	for i := 0; i+1 < len(r); i++ {
		grams = append(grams, string(r[i:i+2]))
	}
	return grams
}

// Similarity scores how alike a and b are, in [0, 1]. The score is
// 2*hits/(len(bigrams(a))+len(bigrams(b))) where hits counts every
// bigram-equality pair across the two sequences, duplicates included.
// Two inputs of length <= 1 score 0.
func Similarity(a, b string) float64 {
	pairsA := Bigrams(a)
	pairsB := Bigrams(b)
	union := len(pairsA) + len(pairsB)
	if union == 0 {
		return 0
	}
	hits := 0
	for _, x := range pairsA {
		for _, y := range pairsB {
			if x == y {
				hits++
			}
		}
	}
	return 2.0 * float64(hits) / float64(union)
}
