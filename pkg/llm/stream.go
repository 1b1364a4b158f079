package llm

import (
	"iter"
	"strings"
)

// Accumulate folds a fragment stream into the final trimmed text.
// Any error discards what was gathered so far.
func Accumulate(seq iter.Seq2[string, error]) (string, error) {
	return AccumulateFunc(seq, nil)
}

// AccumulateFunc is Accumulate with a callback for every non-empty fragment.
func AccumulateFunc(seq iter.Seq2[string, error], onFragment func(string)) (string, error) {
	var sb strings.Builder
	for fragment, err := range seq {
		if err != nil {
			return "", err
		}
		if fragment == "" {
			continue
		}
		sb.WriteString(fragment)
		if onFragment != nil {
			onFragment(fragment)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// Single wraps an already complete response as a one-fragment stream.
func Single(text string, err error) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		yield(text, err)
	}
}
