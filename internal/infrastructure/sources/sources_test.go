package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemNorm/internal/config"
	"github.com/turtacn/ChemNorm/pkg/errors"
)

func testFetcher(t *testing.T) *Fetcher {
	t.Helper()
	f := NewFetcher(config.SourcesConfig{
		Timeout:      5 * time.Second,
		RateLimitRPS: 100,
		UserAgent:    "chemnorm-test",
	}, nil)
	t.Cleanup(f.Close)
	return f
}

func TestFetcher_StatusMapping(t *testing.T) {
	for name, tc := range map[string]struct {
		status int
		code   errors.ErrorCode
	}{
		"not found":    {http.StatusNotFound, errors.ErrCodeSourceNotFound},
		"rate limited": {http.StatusTooManyRequests, errors.ErrCodeSourceRateLimited},
		"server error": {http.StatusInternalServerError, errors.ErrCodeSourceUnavailable},
		"bad gateway":  {http.StatusBadGateway, errors.ErrCodeSourceUnavailable},
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			_, err := testFetcher(t).Get(context.Background(), srv.URL)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tc.code), "got %v", err)
		})
	}
}

func TestFetcher_SendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("body"))
	}))
	defer srv.Close()

	body, err := testFetcher(t).Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "body", string(body))
	assert.Equal(t, "chemnorm-test", gotUA)
}

func TestFetcher_DefaultUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("body"))
	}))
	defer srv.Close()

	f := NewFetcher(config.SourcesConfig{Timeout: 5 * time.Second, RateLimitRPS: 100}, nil)
	t.Cleanup(f.Close)

	_, err := f.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "chemnorm/"+config.Version, gotUA)
}

func TestFetcher_ConnectionRefused(t *testing.T) {
	_, err := testFetcher(t).Get(context.Background(), "http://127.0.0.1:1/nothing")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceUnavailable))
}

func TestRateLimiter_ContextCancel(t *testing.T) {
	rl := NewRateLimiter(1)
	defer rl.Close()
	require.NoError(t, rl.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	// Bucket drained and refill is 1/s, so this wait must hit the deadline.
	err := rl.Acquire(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPubChem_Endpoints(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.RequestURI())
		w.Write([]byte("sdf-text"))
	}))
	defer srv.Close()

	c := NewPubChemClient(srv.URL, testFetcher(t))
	ctx := context.Background()

	for _, call := range []func() (string, error){
		func() (string, error) { return c.FetchSDF3D(ctx, "2519") },
		func() (string, error) { return c.FetchConformers(ctx, "2519") },
		func() (string, error) { return c.FetchSDF2D(ctx, "2519") },
	} {
		text, err := call()
		require.NoError(t, err)
		assert.Equal(t, "sdf-text", text)
	}
	assert.Equal(t, []string{
		"/compound/cid/2519/SDF?record_type=3d",
		"/compound/cid/2519/conformers/SDF",
		"/compound/cid/2519/SDF?record_type=2d",
	}, paths)
}

func TestPubChem_EmptyCID(t *testing.T) {
	c := NewPubChemClient("http://unused", testFetcher(t))
	_, err := c.FetchSDF3D(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeIdentifierInvalid))
}

func TestPubChem_FetchCAS(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/compound/cid/2519/synonyms/JSON", r.URL.RequestURI())
		w.Write([]byte(`{"InformationList":{"Information":[{"Synonym":["caffeine","1,3,7-trimethylxanthine","58-08-2","guaranine"]}]}}`))
	}))
	defer srv.Close()

	cas, err := NewPubChemClient(srv.URL, testFetcher(t)).FetchCAS(context.Background(), "2519")
	require.NoError(t, err)
	assert.Equal(t, "58-08-2", cas)
}

func TestPubChem_FetchCASAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"InformationList":{"Information":[{"Synonym":["caffeine"]}]}}`))
	}))
	defer srv.Close()

	_, err := NewPubChemClient(srv.URL, testFetcher(t)).FetchCAS(context.Background(), "2519")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceNotFound))
}

func TestPubChem_FetchCASBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := NewPubChemClient(srv.URL, testFetcher(t)).FetchCAS(context.Background(), "2519")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceParseError))
}

func TestCommonChem_FetchByCAS(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/detail?cas_rn=58-08-2", r.URL.RequestURI())
		w.Write([]byte(`{"molfile":"caffeine molfile"}`))
	}))
	defer srv.Close()

	text, err := NewCommonChemClient(srv.URL, testFetcher(t)).FetchByCAS(context.Background(), "58-08-2")
	require.NoError(t, err)
	assert.Equal(t, "caffeine molfile", text)
}

func TestCommonChem_Rejections(t *testing.T) {
	c := NewCommonChemClient("http://unused", testFetcher(t))
	_, err := c.FetchByCAS(context.Background(), "not-a-cas")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeIdentifierInvalid))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"molfile":""}`))
	}))
	defer srv.Close()
	_, err = NewCommonChemClient(srv.URL, testFetcher(t)).FetchByCAS(context.Background(), "58-08-2")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceNotFound))
}

func TestCactus_Resolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/CCO/sdf", r.URL.Path)
		w.Write([]byte("ethanol sdf"))
	}))
	defer srv.Close()

	text, err := NewCactusClient(srv.URL, testFetcher(t)).Resolve(context.Background(), "CCO")
	require.NoError(t, err)
	assert.Equal(t, "ethanol sdf", text)
}

func TestCactus_HTMLMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html><body>Page not found</body></html>"))
	}))
	defer srv.Close()

	_, err := NewCactusClient(srv.URL, testFetcher(t)).Resolve(context.Background(), "unobtanium")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceNotFound))
}

func TestCactus_EmptyInput(t *testing.T) {
	_, err := NewCactusClient("http://unused", testFetcher(t)).Resolve(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeIdentifierInvalid))
}
