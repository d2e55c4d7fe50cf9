package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStemmer(t *testing.T) {
	s := NewStemmer(true, 3, []string{"bst", "OSI"})
	assert.True(t, s.IsEnabled())

	tests := []struct {
		word     string
		expected string
	}{
		{"running", "run"},
		{"searching", "search"},
		{"servers", "server"},
		{"bst", "bst"},
		{"osi", "osi"},
		{"ab", "ab"},
	}
	for _, tc := range tests {
		t.Run(tc.word, func(t *testing.T) {
			assert.Equal(t, tc.expected, s.Stem(tc.word))
		})
	}

	assert.Equal(t, []string{"run", "search"}, s.StemAll([]string{"running", "searching"}))
}

func TestStemmer_Disabled(t *testing.T) {
	s := NewStemmer(false, 3, nil)
	assert.False(t, s.IsEnabled())
	assert.Equal(t, "running", s.Stem("running"))

	words := []string{"running", "servers"}
	assert.Equal(t, words, s.StemAll(words))

	var nilStemmer *Stemmer
	assert.Equal(t, "running", nilStemmer.Stem("running"))
}
