package sru

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchRequest(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		opts        SearchOptions
		sru20       bool
		wantErr     bool
		errContains string
		wantCQL     string
		wantParams  map[string]string
	}{
		{
			name:    "defaults",
			query:   `pica.tit="Faust"`,
			sru20:   true,
			wantCQL: `pica.tit="Faust"`,
			wantParams: map[string]string{
				"version":        "1.1",
				"operation":      "searchRetrieve",
				"recordSchema":   "marcxml",
				"startRecord":    "1",
				"maximumRecords": "10",
				"recordPacking":  "xml",
			},
		},
		{
			name:    "index wraps query",
			query:   "Faust",
			opts:    SearchOptions{Index: IndexTitle},
			sru20:   true,
			wantCQL: `pica.tit="Faust"`,
		},
		{
			name:  "sort descending by default",
			query: "Faust",
			opts:  SearchOptions{SortBy: SortYear},
			wantParams: map[string]string{
				"sortKeys": "year,,0",
			},
		},
		{
			name:  "sort ascending",
			query: "Faust",
			opts:  SearchOptions{SortBy: SortYear, SortOrder: SortAscending},
			wantParams: map[string]string{
				"sortKeys": "year,,1",
			},
		},
		{
			name:  "facets upgrade version on capable endpoint",
			query: "Faust",
			opts:  SearchOptions{Facets: []string{"language", "year"}},
			sru20: true,
			wantParams: map[string]string{
				"version":    "2.0",
				"facets":     "language,year",
				"facetLimit": "10",
			},
		},
		{
			name:  "facets omitted on 1.1 endpoint",
			query: "Faust",
			opts:  SearchOptions{Facets: []string{"language"}},
			sru20: false,
			wantParams: map[string]string{
				"version": "1.1",
				"facets":  "",
			},
		},
		{
			name:        "empty query",
			query:       "   ",
			wantErr:     true,
			errContains: "query",
		},
		{
			name:        "unknown format",
			query:       "Faust",
			opts:        SearchOptions{Format: "bibtex"},
			wantErr:     true,
			errContains: "format",
		},
		{
			name:        "unknown index",
			query:       "Faust",
			opts:        SearchOptions{Index: "pica.nope"},
			wantErr:     true,
			errContains: "index",
		},
		{
			name:        "negative start record",
			query:       "Faust",
			opts:        SearchOptions{StartRecord: -3},
			wantErr:     true,
			errContains: "startRecord",
		},
		{
			name:        "negative maximum records",
			query:       "Faust",
			opts:        SearchOptions{MaximumRecords: -1},
			wantErr:     true,
			errContains: "maximumRecords",
		},
		{
			name:        "unknown packing",
			query:       "Faust",
			opts:        SearchOptions{Packing: "json"},
			wantErr:     true,
			errContains: "recordPacking",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := buildSearchRequest(tt.query, tt.opts, tt.sru20)

			if tt.wantErr {
				require.Error(t, err)
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			if tt.wantCQL != "" {
				assert.Equal(t, tt.wantCQL, req.cql)
				assert.Equal(t, tt.wantCQL, req.params.Get("query"))
			}
			for key, want := range tt.wantParams {
				assert.Equal(t, want, req.params.Get(key), "param %s", key)
			}
		})
	}
}

func TestBuildSearchRequestOversizedWarning(t *testing.T) {
	req, err := buildSearchRequest("Faust", SearchOptions{MaximumRecords: 500}, false)
	require.NoError(t, err)

	assert.Equal(t, "500", req.params.Get("maximumRecords"))
	require.Len(t, req.warnings, 1)
	assert.Contains(t, req.warnings[0], "500")
}

func TestBuildScanRequest(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		params, err := buildScanRequest("pica.per=Goe", 0, 0)
		require.NoError(t, err)

		assert.Equal(t, "scan", params.Get("operation"))
		assert.Equal(t, "1.1", params.Get("version"))
		assert.Equal(t, "pica.per=Goe", params.Get("scanClause"))
		assert.Equal(t, "1", params.Get("responsePosition"))
		assert.Equal(t, "20", params.Get("maximumTerms"))
	})

	t.Run("empty clause", func(t *testing.T) {
		_, err := buildScanRequest("  ", 0, 0)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "scanClause", verr.Param)
	})

	t.Run("negative terms", func(t *testing.T) {
		_, err := buildScanRequest("pica.per=Goe", 1, -5)
		require.Error(t, err)
	})
}

func TestBuildRelatedQuery(t *testing.T) {
	tests := []struct {
		name       string
		ppn        string
		relation   RelationType
		recordType RecordType
		want       string
		wantErr    bool
	}{
		{
			name:     "child volumes of a multi-volume work",
			ppn:      "267838395",
			relation: RelationChild,
			want:     `pica.1049="267838395" and pica.1045="rel-nt" and pica.1001="b"`,
		},
		{
			name:       "authority family",
			ppn:        "123456789",
			relation:   RelationFamily,
			recordType: RecordAuthority,
			want:       `pica.1049="123456789" and pica.1045="fam" and pica.1001="n"`,
		},
		{
			name:     "record type defaults to bibliographic",
			ppn:      "42",
			relation: RelationParent,
			want:     `pica.1049="42" and pica.1045="rel-bt" and pica.1001="b"`,
		},
		{
			name:     "empty ppn",
			ppn:      "",
			relation: RelationFamily,
			wantErr:  true,
		},
		{
			name:     "unknown relation",
			ppn:      "42",
			relation: "siblings",
			wantErr:  true,
		},
		{
			name:       "unknown record type",
			ppn:        "42",
			relation:   RelationFamily,
			recordType: "x",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildRelatedQuery(tt.ppn, tt.relation, tt.recordType)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeIdentifier(t *testing.T) {
	assert.Equal(t, "9783518468006", normalizeIdentifier("978-3-518-46800-6"))
	assert.Equal(t, "9783518468006", normalizeIdentifier("978 3 518 46800 6"))
	assert.Equal(t, "12345679", normalizeIdentifier("1234-5679"))
	assert.Equal(t, "", normalizeIdentifier("- -"))
}
