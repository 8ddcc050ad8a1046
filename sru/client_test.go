package sru

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalSearchBody = `<?xml version="1.0" encoding="UTF-8"?>
<zs:searchRetrieveResponse xmlns:zs="http://www.loc.gov/zing/srw/">
  <zs:numberOfRecords>1</zs:numberOfRecords>
  <zs:records>
    <zs:record>
      <zs:recordSchema>marcxml</zs:recordSchema>
      <zs:recordData>
        <record xmlns="http://www.loc.gov/MARC21/slim">
          <controlfield tag="001">1724383647</controlfield>
          <datafield tag="245"><subfield code="a">Faust</subfield></datafield>
        </record>
      </zs:recordData>
    </zs:record>
  </zs:records>
</zs:searchRetrieveResponse>`

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		baseURL string
		wantErr bool
		wantURL string
	}{
		{
			name:    "empty URL selects default endpoint",
			baseURL: "",
			wantURL: DefaultBaseURL,
		},
		{
			name:    "trailing slash trimmed",
			baseURL: "https://sru.gbv.de/gvk/",
			wantURL: "https://sru.gbv.de/gvk",
		},
		{
			name:    "unsupported scheme",
			baseURL: "ftp://example.org/sru",
			wantErr: true,
		},
		{
			name:    "no host",
			baseURL: "https://",
			wantErr: true,
		},
		{
			name:    "not a URL",
			baseURL: "::not-a-url::",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, logger)

			if tt.wantErr {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "baseURL", verr.Param)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, client.BaseURL())
			assert.True(t, client.SupportsSRU20())
		})
	}
}

func TestClientSearch(t *testing.T) {
	var gotQuery, gotUA, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = q.Get("query")
		gotUA = r.Header.Get("User-Agent")
		gotAuth = r.Header.Get("Authorization")

		assert.Equal(t, "searchRetrieve", q.Get("operation"))
		assert.Equal(t, "1.1", q.Get("version"))
		assert.Equal(t, "marcxml", q.Get("recordSchema"))

		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(minimalSearchBody))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, zerolog.Nop(), WithAPIKey("secret"), WithUserAgent("test-agent/1.0"))
	require.NoError(t, err)
	defer client.Close()

	resp, err := client.Search(context.Background(), "Faust", SearchOptions{Index: IndexTitle})
	require.NoError(t, err)

	assert.Equal(t, `pica.tit="Faust"`, gotQuery)
	assert.Equal(t, "test-agent/1.0", gotUA)
	assert.Equal(t, "Bearer secret", gotAuth)

	assert.Equal(t, 1, resp.TotalResults)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Faust", resp.Results[0].Title)
}

func TestClientSearchByISBN(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		w.Write([]byte(minimalSearchBody))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	_, err = client.SearchByISBN(context.Background(), "978-3-406-75845-4", SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, `pica.isb="9783406758454"`, gotQuery)

	_, err = client.SearchByISBN(context.Background(), "- -", SearchOptions{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "isbn", verr.Param)
}

func TestClientSearchRelated(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		w.Write([]byte(minimalSearchBody))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	_, err = client.SearchRelated(context.Background(), "267838395", RelationChild, "", SearchOptions{Index: IndexTitle})
	require.NoError(t, err)

	// The relation clause is complete CQL; the index must not rewrap it
	assert.Equal(t, `pica.1049="267838395" and pica.1045="rel-nt" and pica.1001="b"`, gotQuery)
}

func TestClientFacetsGatedByCapability(t *testing.T) {
	var gotVersion, gotFacets string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotVersion = r.URL.Query().Get("version")
		gotFacets = r.URL.Query().Get("facets")
		w.Write([]byte(minimalSearchBody))
	}))
	defer server.Close()

	opts := SearchOptions{Facets: []string{"language"}}

	t.Run("sru 2.0 endpoint", func(t *testing.T) {
		client, err := NewClient(server.URL, zerolog.Nop(), WithSRU20(true))
		require.NoError(t, err)
		defer client.Close()

		_, err = client.Search(context.Background(), "Faust", opts)
		require.NoError(t, err)
		assert.Equal(t, "2.0", gotVersion)
		assert.Equal(t, "language", gotFacets)
	})

	t.Run("sru 1.1 endpoint", func(t *testing.T) {
		client, err := NewClient(server.URL, zerolog.Nop(), WithSRU20(false))
		require.NoError(t, err)
		defer client.Close()

		_, err = client.Search(context.Background(), "Faust", opts)
		require.NoError(t, err)
		assert.Equal(t, "1.1", gotVersion)
		assert.Empty(t, gotFacets)
	})
}

func TestClientStatusErrors(t *testing.T) {
	t.Run("access denied carries a profile suggestion", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "forbidden", http.StatusForbidden)
		}))
		defer server.Close()

		client, err := NewClient(server.URL, zerolog.Nop())
		require.NoError(t, err)
		defer client.Close()

		_, err = client.Search(context.Background(), "Faust", SearchOptions{})
		var serr *StatusError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, http.StatusForbidden, serr.StatusCode)
		assert.True(t, serr.IsAccessDenied())
		assert.Contains(t, serr.Suggestion, "--profile")
	})

	t.Run("server error marked transient", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer server.Close()

		client, err := NewClient(server.URL, zerolog.Nop())
		require.NoError(t, err)
		defer client.Close()

		_, err = client.Search(context.Background(), "Faust", SearchOptions{})
		var serr *StatusError
		require.ErrorAs(t, err, &serr)
		assert.True(t, serr.IsServerError())
		assert.Contains(t, serr.Suggestion, "transient")
	})
}

func TestClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(minimalSearchBody))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, zerolog.Nop(), WithTimeout(50*time.Millisecond))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Search(context.Background(), "Faust", SearchOptions{})
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.True(t, terr.Timeout)
	assert.True(t, errors.Is(err, ErrTimeout))
}

func TestClientEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Search(context.Background(), "Faust", SearchOptions{})
	assert.True(t, errors.Is(err, ErrEmptyResponse))
}

func TestClientScan(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "scan", q.Get("operation"))
		assert.Equal(t, "pica.per=Goe", q.Get("scanClause"))

		w.Write([]byte(`<zs:scanResponse xmlns:zs="http://www.loc.gov/zing/srw/">
  <zs:terms>
    <zs:term><zs:value>goethe</zs:value><zs:numberOfRecords>9344</zs:numberOfRecords></zs:term>
  </zs:terms>
</zs:scanResponse>`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	resp, err := client.Scan(context.Background(), "pica.per=Goe", 0, 0)
	require.NoError(t, err)
	require.Len(t, resp.Terms, 1)
	assert.Equal(t, "goethe", resp.Terms[0].Value)
	assert.Equal(t, "pica.per=Goe", resp.ScanClause)
	assert.Equal(t, 1, resp.ResponsePosition)
}

func TestClientExplain(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "explain", r.URL.Query().Get("operation"))
		w.Write([]byte(`<zs:explainResponse xmlns:zs="http://www.loc.gov/zing/srw/">
  <zs:record><zs:recordData><explain>
    <serverInfo><host>example.org</host><port>80</port><database>test</database></serverInfo>
  </explain></zs:recordData></zs:record>
</zs:explainResponse>`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	resp, err := client.Explain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "example.org", resp.Server.Host)
	assert.Equal(t, 80, resp.Server.Port)
}

func TestClientRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(minimalSearchBody))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, zerolog.Nop(), WithRateLimit(10))
	require.NoError(t, err)
	defer client.Close()

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.Search(context.Background(), "Faust", SearchOptions{})
		require.NoError(t, err)
	}

	// Burst of 1 at 10 req/s: the second and third call each wait ~100ms
	assert.Equal(t, int32(3), calls.Load())
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}

func TestClientCloseIdempotent(t *testing.T) {
	client, err := NewClient("", zerolog.Nop())
	require.NoError(t, err)

	client.Close()
	client.Close()
}

func TestSearchAll(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(minimalSearchBody))
	}))
	defer good.Close()

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer bad.Close()

	endpoints := []Endpoint{
		{Name: "good", BaseURL: good.URL, SRU20: true},
		{Name: "bad", BaseURL: bad.URL},
		{Name: "invalid", BaseURL: "ftp://nope"},
	}

	results := SearchAll(context.Background(), endpoints, "Faust", SearchOptions{}, zerolog.Nop())
	require.Len(t, results, 3)

	// Results arrive in endpoint order; one failure does not abort the rest
	assert.Equal(t, "good", results[0].Endpoint.Name)
	require.NoError(t, results[0].Err)
	assert.Equal(t, 1, results[0].Response.TotalResults)

	assert.Equal(t, "bad", results[1].Endpoint.Name)
	var serr *StatusError
	require.ErrorAs(t, results[1].Err, &serr)

	assert.Equal(t, "invalid", results[2].Endpoint.Name)
	var verr *ValidationError
	require.ErrorAs(t, results[2].Err, &verr)
}
