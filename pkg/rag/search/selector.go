package search

import (
	"sort"

	"study-assistant-be/pkg/rag/chunk"
	"study-assistant-be/pkg/rag/score"
)

// Config encapsulates retrieval parameters
type Config struct {
	MaxChars int
	Overlap  int
	TopK     int
}

// DefaultConfig returns the default retrieval window and result count
func DefaultConfig() Config {
	return Config{
		MaxChars: chunk.DefaultMaxChars,
		Overlap:  chunk.DefaultOverlap,
		TopK:     3,
	}
}

// ScoredChunk pairs a chunk with its keyword score for one query.
type ScoredChunk struct {
	chunk.Chunk
	Score int `json:"score"`
}

// Selector ranks the chunks of a document against a question.
type Selector struct {
	config Config
}

// NewSelector validates the chunk window up front so Select never fails.
func NewSelector(config Config) (*Selector, error) {
	if _, err := chunk.Split("", config.MaxChars, config.Overlap); err != nil {
		return nil, err
	}
	return &Selector{config: config}, nil
}

func (s *Selector) Config() Config {
	return s.config
}

// Select returns at most TopK chunks, highest score first.
// Chunks with equal scores keep their document order.
func (s *Selector) Select(text, query string) []ScoredChunk {
	return s.SelectK(text, query, s.config.TopK)
}

// SelectK is Select with an explicit result count; k <= 0 selects nothing.
func (s *Selector) SelectK(text, query string, k int) []ScoredChunk {
	if k <= 0 {
		return []ScoredChunk{}
	}

	chunks, err := chunk.Split(text, s.config.MaxChars, s.config.Overlap)
	if err != nil || len(chunks) == 0 {
		return []ScoredChunk{}
	}

	scorer := score.NewScorer(query)
	scored := make([]ScoredChunk, len(chunks))
	for i, c := range chunks {
		scored[i] = ScoredChunk{Chunk: c, Score: scorer.Score(c.Text)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}

// Texts extracts the chunk bodies in ranked order.
func Texts(selected []ScoredChunk) []string {
	texts := make([]string, len(selected))
	for i, s := range selected {
		texts[i] = s.Text
	}
	return texts
}
