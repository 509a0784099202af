package clustering

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultNameTerms is how many top TF-IDF terms compose a cluster name.
const DefaultNameTerms = 2

var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// NameClusters labels each cluster from the vocabulary of its own text.
// Each cluster's concatenated chunk text is one pseudo-document; terms are
// scored with smoothed TF-IDF across those pseudo-documents and the top
// terms are title-cased and joined with " & ". Ties break by score
// descending then term ascending, so names are deterministic. A cluster
// whose text yields no usable terms falls back to "Cluster {id}".
func NameClusters(clusterTexts map[int]string, topN int) map[int]string {
	if topN <= 0 {
		topN = DefaultNameTerms
	}

	names := make(map[int]string, len(clusterTexts))
	if len(clusterTexts) == 0 {
		return names
	}

	// Stable pseudo-document order.
	ids := make([]int, 0, len(clusterTexts))
	for id := range clusterTexts {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	// Document frequency over pseudo-documents.
	df := make(map[string]int)
	tokenised := make(map[int][]string, len(ids))
	for _, id := range ids {
		tokens := tokenize(clusterTexts[id])
		tokenised[id] = tokens

		seen := make(map[string]struct{})
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	n := float64(len(ids))
	for _, id := range ids {
		tokens := tokenised[id]
		if len(tokens) == 0 {
			names[id] = fmt.Sprintf("Cluster %d", id)
			continue
		}

		tf := make(map[string]int)
		for _, tok := range tokens {
			tf[tok]++
		}

		type scored struct {
			term  string
			score float64
		}
		terms := make([]scored, 0, len(tf))
		for term, count := range tf {
			idf := math.Log((1+n)/(1+float64(df[term]))) + 1.0
			terms = append(terms, scored{
				term:  term,
				score: float64(count) / float64(len(tokens)) * idf,
			})
		}

		sort.Slice(terms, func(i, j int) bool {
			if terms[i].score != terms[j].score {
				return terms[i].score > terms[j].score
			}
			return terms[i].term < terms[j].term
		})

		k := topN
		if k > len(terms) {
			k = len(terms)
		}
		parts := make([]string, 0, k)
		for _, t := range terms[:k] {
			parts = append(parts, titleCase(t.term))
		}
		names[id] = strings.Join(parts, " & ")
	}

	return names
}

// titleCase uppercases the first letter of a term. Terms are single
// tokens, so this matches how the keywords read in a label.
func titleCase(term string) string {
	r, size := utf8.DecodeRuneInString(term)
	if r == utf8.RuneError {
		return term
	}
	return string(unicode.ToUpper(r)) + term[size:]
}

// tokenize lowercases, extracts letter runs, and drops stopwords and
// single-character tokens.
func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if len(t) < 2 {
			continue
		}
		if _, isStop := stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

var stopwords = func() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are",
		"was", "were", "be", "been", "being", "it", "this", "that", "these",
		"those", "from", "up", "down", "over", "under", "again", "further",
		"than", "so", "such", "into", "about", "between", "through",
		"during", "before", "after", "above", "below", "out", "off", "own",
		"same", "too", "very", "can", "will", "just", "don", "should",
		"now", "not", "no", "has", "have", "had", "do", "does", "did",
		"its", "their", "they", "we", "you", "he", "she", "his", "her",
		"our", "all", "each", "more", "most", "other", "some", "any",
		"only", "both", "when", "where", "which", "who", "what", "how",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
