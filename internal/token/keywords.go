package token

import "strings"

// WordSet is an immutable set of lowercase words.
type WordSet map[string]struct{}

func newWordSet(groups ...[]string) WordSet {
	s := WordSet{}
	for _, words := range groups {
		for _, w := range words {
			s[w] = struct{}{}
		}
	}
	return s
}

// Has reports whether word (compared case-insensitively) is in the set.
func (s WordSet) Has(word string) bool {
	_, ok := s[strings.ToLower(word)]
	return ok
}

// Words returns the members of the set.
func (s WordSet) Words() []string {
	words := make([]string, 0, len(s))
	for w := range s {
		words = append(words, w)
	}
	return words
}

// Literal words, grouped by the constant they denote.
var (
	TrueWords       = []string{"true", "right", "yes", "ok"}
	FalseWords      = []string{"false", "wrong", "no", "lies"}
	NullWords       = []string{"null", "nothing", "nowhere", "nobody", "gone"}
	MysteriousWords = []string{"mysterious"}
)

// PronounWords refer back to the most recently assigned variable.
var PronounWords = []string{
	"it", "he", "she", "him", "her", "they", "them",
	"ze", "hir", "zie", "zir", "xe", "xem", "ve", "ver",
}

// CommonPrefixes introduce a common variable name ("my heart").
var CommonPrefixes = []string{"a", "an", "the", "my", "your"}

var statementWords = []string{
	"put", "into", "let", "be", "is", "are", "was", "were", "says", "said",
	"build", "up", "knock", "down", "turn", "round", "around",
	"say", "shout", "whisper", "scream", "listen", "to",
	"if", "else", "while", "until", "break", "continue", "take", "top",
	"takes", "taking", "give", "back", "return", "send",
}

var operatorWords = []string{
	"plus", "with", "minus", "without", "times", "of", "over", "between",
	"and", "or", "nor", "not", "isnt", "aint", "than", "as",
	"higher", "greater", "bigger", "stronger",
	"lower", "less", "smaller", "weaker",
	"high", "great", "big", "strong",
	"low", "little", "small", "weak",
}

// Keywords holds every reserved word. Variable names may not use them.
var Keywords = newWordSet(
	TrueWords, FalseWords, NullWords, MysteriousWords,
	PronounWords, CommonPrefixes, statementWords, operatorWords,
)

// Pronouns holds the pronoun words.
var Pronouns = newWordSet(PronounWords)

// IsKeyword reports whether word is reserved.
func IsKeyword(word string) bool {
	return Keywords.Has(word)
}
