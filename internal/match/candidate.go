package match

import "sort"

// Candidate is a known name ranked against a requested one.
type Candidate struct {
	Name  string
	Score float64 // NameScore against the requested name (0-1)
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankCandidates ranks names against the requested one, best first.
func RankCandidates(target string, names []string) CandidateList {
	candidates := make(CandidateList, 0, len(names))

	for _, name := range names {
		candidates = append(candidates, Candidate{
			Name:  name,
			Score: NameScore(name, target),
		})
	}

	sort.Sort(candidates)

	return candidates
}

// Suggest returns up to n names similar to name, best first.
func Suggest(name string, names []string, n int) []string {
	others := make([]string, 0, len(names))
	for _, candidate := range names {
		if candidate != name {
			others = append(others, candidate)
		}
	}

	var out []string
	for _, c := range RankCandidates(name, others).AboveThreshold(DefaultSuggestScore).Top(n) {
		out = append(out, c.Name)
	}

	return out
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less sorts by score descending, then by name for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}
	return c[:n]
}

// AboveThreshold returns candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList
	for _, cand := range c {
		if cand.Score >= threshold {
			result = append(result, cand)
		}
	}
	return result
}

// DefaultSuggestScore is the minimum name score of a suggestion.
const DefaultSuggestScore = 0.5
