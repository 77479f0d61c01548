package match

import (
	"slices"
	"strings"

	"github.com/stoewer/go-strcase"
)

// qualifiers are trailing name tokens that rarely distinguish two properties.
var qualifiers = []string{"id", "ids", "at", "utc", "timestamp"}

// Tokens splits an identifier into lower-case words: "OrderID" and
// "order_id" both give [order id].
func Tokens(name string) []string {
	return slices.DeleteFunc(strings.Split(strcase.SnakeCase(name), "_"), func(s string) bool {
		return s == ""
	})
}

// Fold reduces an identifier to its words joined together, so that names
// differing only in case or separators compare equal.
func Fold(name string) string {
	return strings.Join(Tokens(name), "")
}

// FoldQualified is Fold without a trailing qualifier word such as "ID" or
// "At". A name made of the qualifier alone is kept.
func FoldQualified(name string) string {
	tokens := Tokens(name)
	if len(tokens) > 1 && slices.Contains(qualifiers, tokens[len(tokens)-1]) {
		tokens = tokens[:len(tokens)-1]
	}

	return strings.Join(tokens, "")
}

// Distance returns the edit distance between a and b, counted in runes.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	row := make([]int, len(ra)+1)
	for i := range row {
		row[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		diag := row[0]
		row[0] = j

		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			next := min(row[i]+1, row[i-1]+1, diag+cost)
			diag, row[i] = row[i], next
		}
	}

	return row[len(ra)]
}

// Similarity scores a against b in [0, 1], 1 meaning equal.
func Similarity(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Distance(a, b))/float64(longest)
}

// NameScore is the better of the folded and qualifier-stripped similarity of
// two identifiers.
func NameScore(a, b string) float64 {
	return max(Similarity(Fold(a), Fold(b)), Similarity(FoldQualified(a), FoldQualified(b)))
}
