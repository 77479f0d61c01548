// Package match ranks property names by similarity and classifies how two
// reflect types relate.
//
// Key functions:
//   - Tokens and Fold: reduce identifiers to comparable words
//   - Distance and NameScore: edit distance and name similarity
//   - ScoreTypeCompatibility: classifies a source/target type pair
//   - RankCandidates and Suggest: rank known names against a requested one
package match
