package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jvanvinkenroye/swb/sru"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "field comparison",
			expression: `Year >= "2020"`,
		},
		{
			name:       "helper function",
			expression: `contains(Title, "faust")`,
		},
		{
			name:       "holdings helper",
			expression: `heldBy("DE-21") and Author != ""`,
		},
		{
			name:        "empty expression",
			expression:  "   ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "unbalanced quote",
			expression: `contains(Title, "unclosed`,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)

			if tt.wantErr {
				var cerr *CompilationError
				require.ErrorAs(t, err, &cerr)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			require.NotNil(t, f)
			assert.Equal(t, tt.expression, f.Expression())
		})
	}
}

func TestEvaluate(t *testing.T) {
	record := sru.SearchResult{
		RecordID:  "1724383647",
		Title:     "Faust",
		Author:    "Goethe, Johann Wolfgang von",
		Year:      "2021",
		Publisher: "C.H. Beck",
		ISBN:      "9783406758454",
		Format:    sru.FormatMARCXML,
		Holdings: []sru.LibraryHolding{
			{LibraryCode: "DE-21"},
			{LibraryCode: "DE-16"},
		},
	}

	tests := []struct {
		name       string
		expression string
		want       bool
	}{
		{"title match", `contains(Title, "FAUST")`, true},
		{"title mismatch", `contains(Title, "prozess")`, false},
		{"year comparison", `Year >= "2020"`, true},
		{"author prefix", `startsWith(Author, "goethe")`, true},
		{"held by library", `heldBy("de-21")`, true},
		{"not held", `heldBy("DE-100")`, false},
		{"library list", `"DE-16" in Libraries`, true},
		{"combined", `contains(Publisher, "beck") and Year == "2021"`, true},
		{"format", `Format == "marcxml"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Evaluate(record))
		})
	}
}

func TestEvaluateErrorMeansNoMatch(t *testing.T) {
	f, err := Compile(`Missing.Field == "x"`)
	require.NoError(t, err)
	assert.False(t, f.Evaluate(sru.SearchResult{Title: "whatever"}))
}

func TestApply(t *testing.T) {
	results := []sru.SearchResult{
		{Title: "Faust", Year: "2021"},
		{Title: "Der Prozess", Year: "1925"},
		{Title: "Faust II", Year: "1832"},
	}

	f, err := Compile(`contains(Title, "faust")`)
	require.NoError(t, err)

	kept := Apply(f, results)
	require.Len(t, kept, 2)
	assert.Equal(t, "Faust", kept[0].Title)
	assert.Equal(t, "Faust II", kept[1].Title)
}
