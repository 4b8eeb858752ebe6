package catalog

import (
	"math"
	"sort"
	"strings"
)

const defaultMaxFeatures = 5000

// A minimal english stop word list; enough to keep glue words out of the
// vocabulary without pulling in a full NLP stack for a 4-line tokenizer.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "in": {}, "is": {}, "it": {},
	"its": {}, "of": {}, "on": {}, "or": {}, "that": {}, "the": {}, "to": {},
	"was": {}, "were": {}, "will": {}, "with": {},
}

// TextIndex is a TF-IDF index over document text, used for lexical retrieval
// and free-text search. Immutable after construction.
type TextIndex struct {
	vocab map[string]int
	idf   []float64
	// docs holds each document's l2-normalized sparse TF-IDF vector.
	docs []map[int]float64
}

// ScoredDoc is a document index with its cosine similarity to a query.
type ScoredDoc struct {
	Doc   int
	Score float64
}

// NewTextIndex fits a TF-IDF vocabulary over the given documents, keeping at
// most maxFeatures terms ranked by document frequency.
func NewTextIndex(docs []string, maxFeatures int) *TextIndex {
	df := map[string]int{}
	tokenized := make([][]string, len(docs))
	for i, doc := range docs {
		tokens := tokenize(doc)
		tokenized[i] = tokens
		seen := map[string]struct{}{}
		for _, t := range tokens {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if df[terms[i]] != df[terms[j]] {
			return df[terms[i]] > df[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if maxFeatures > 0 && len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}

	ix := &TextIndex{
		vocab: make(map[string]int, len(terms)),
		idf:   make([]float64, len(terms)),
	}
	n := float64(len(docs))
	for i, t := range terms {
		ix.vocab[t] = i
		// Smoothed IDF, matching the convention of the scikit vectorizer the
		// dataset tooling was built against.
		ix.idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	ix.docs = make([]map[int]float64, len(docs))
	for i, tokens := range tokenized {
		ix.docs[i] = ix.vectorize(tokens)
	}
	return ix
}

// Query scores every document against the query string and returns the top k
// by cosine similarity, ties broken by document order. The allow callback, if
// non-nil, restricts scoring to permitted documents.
func (ix *TextIndex) Query(query string, k int, allow func(doc int) bool) []ScoredDoc {
	if ix == nil || k <= 0 {
		return nil
	}
	qv := ix.vectorize(tokenize(query))
	if len(qv) == 0 {
		return nil
	}

	scored := make([]ScoredDoc, 0, len(ix.docs))
	for doc, dv := range ix.docs {
		if allow != nil && !allow(doc) {
			continue
		}
		s := sparseDot(qv, dv)
		if s > 0 {
			scored = append(scored, ScoredDoc{Doc: doc, Score: s})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Doc < scored[j].Doc
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}

// vectorize builds an l2-normalized sparse TF-IDF vector from tokens.
func (ix *TextIndex) vectorize(tokens []string) map[int]float64 {
	vec := map[int]float64{}
	for _, t := range tokens {
		if term, ok := ix.vocab[t]; ok {
			vec[term]++
		}
	}
	var norm float64
	for term, tf := range vec {
		w := tf * ix.idf[term]
		vec[term] = w
		norm += w * w
	}
	if norm == 0 {
		return map[int]float64{}
	}
	norm = math.Sqrt(norm)
	for term := range vec {
		vec[term] /= norm
	}
	return vec
}

func sparseDot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for term, w := range a {
		dot += w * b[term]
	}
	return dot
}

func tokenize(s string) []string {
	var tokens []string
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			sb.WriteRune(r)
			continue
		}
		if sb.Len() > 1 {
			w := sb.String()
			if _, stop := stopWords[w]; !stop {
				tokens = append(tokens, w)
			}
		}
		sb.Reset()
	}
	if sb.Len() > 1 {
		w := sb.String()
		if _, stop := stopWords[w]; !stop {
			tokens = append(tokens, w)
		}
	}
	return tokens
}
