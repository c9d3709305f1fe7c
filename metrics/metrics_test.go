package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/addresses/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a1", "a2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/addresses/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	got := testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/addresses/{id}", "404"))
	assert.Equal(t, 2.0, got)
}

func TestDomainCounters(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.AddressCreated()
	m.AddressCreated()
	m.AddressVerified()
	m.PhotoProcessed(nil)
	m.PhotoProcessed(errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.addressesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.addressesVerified))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.photosProcessed.WithLabelValues("error")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "cam_addresses_created_total 2")

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.AddressCreated() })
}
