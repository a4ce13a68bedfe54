package errors

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSuggest(t *testing.T) {
	tests := []struct {
		target     string
		candidates []string
		want       []string
	}{
		{"ech", []string{"echo", "cat"}, []string{"echo"}},
		{"lenght", []string{"length", "lower", "upper"}, []string{"length"}},
		{"grpe", []string{"grep", "group-by", "head"}, []string{"grep"}},
		{"zzz", []string{"echo", "cat"}, nil},
		{"", []string{"echo"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			require.Equal(t, tt.want, Suggest(tt.target, tt.candidates))
		})
	}
}

func TestDidYouMean(t *testing.T) {
	require.Equal(t, "", DidYouMean(nil))
	require.Equal(t, "did you mean 'echo'?", DidYouMean([]string{"echo"}))
	require.Equal(t, "did you mean one of 'cat', 'cd'?", DidYouMean([]string{"cat", "cd"}))
}

func TestLevenshtein(t *testing.T) {
	require.Equal(t, 0, levenshtein("abc", "abc"))
	require.Equal(t, 3, levenshtein("", "abc"))
	require.Equal(t, 1, levenshtein("🍤a", "🍤"))
	require.Equal(t, 3, levenshtein("kitten", "sitting"))
}
