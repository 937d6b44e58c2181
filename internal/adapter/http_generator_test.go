package adapter

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/MKhiriev/pilvi-pass/internal/logger"
	"github.com/MKhiriev/pilvi-pass/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(t *testing.T, url string) PasswordGenerator {
	t.Helper()
	g, err := NewHTTPPasswordGenerator(testAdapterConfig(url), logger.Nop())
	require.NoError(t, err)
	return g
}

func TestGenerate_SendsOptions(t *testing.T) {
	srv := newBackend(t, func(r chi.Router) {
		r.Get("/api/", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "16", q.Get("length"))
			assert.Equal(t, "off", q.Get("special"))
			assert.Equal(t, "on", q.Get("numbers"))
			assert.Equal(t, "on", q.Get("lower"))
			assert.Equal(t, "off", q.Get("upper"))

			// the real service answers with text/html
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`[{"password":"a1b2c3d4e5f6g7h8"}]`))
		})
	})

	got, err := newTestGenerator(t, srv.URL).Generate(context.Background(), models.GeneratorOptions{
		Length:     16,
		UseNumbers: true,
		UseLower:   true,
	})

	require.NoError(t, err)
	assert.Equal(t, "a1b2c3d4e5f6g7h8", got)
}

func TestGenerate_EmptyResponse(t *testing.T) {
	srv := newBackend(t, func(r chi.Router) {
		r.Get("/api/", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, http.StatusOK, []any{})
		})
	})

	_, err := newTestGenerator(t, srv.URL).Generate(context.Background(), models.DefaultGeneratorOptions())
	assert.ErrorIs(t, err, ErrGeneratorUnavailable)
}

func TestGenerate_GarbageResponse(t *testing.T) {
	srv := newBackend(t, func(r chi.Router) {
		r.Get("/api/", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>maintenance</html>"))
		})
	})

	_, err := newTestGenerator(t, srv.URL).Generate(context.Background(), models.DefaultGeneratorOptions())
	assert.ErrorIs(t, err, ErrGeneratorUnavailable)
	assert.NotErrorIs(t, err, ErrNetwork)
}

func TestGenerate_BreakerOpensAfterServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := newBackend(t, func(r chi.Router) {
		r.Get("/api/", func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		})
	})
	g := newTestGenerator(t, srv.URL)

	for range 3 {
		_, err := g.Generate(context.Background(), models.DefaultGeneratorOptions())
		assert.ErrorIs(t, err, ErrServerError)
	}

	_, err := g.Generate(context.Background(), models.DefaultGeneratorOptions())
	assert.ErrorIs(t, err, ErrGeneratorUnavailable)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGenerate_ClientErrorsDoNotTripBreaker(t *testing.T) {
	var calls atomic.Int32
	srv := newBackend(t, func(r chi.Router) {
		r.Get("/api/", func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		})
	})
	g := newTestGenerator(t, srv.URL)

	for range 5 {
		_, err := g.Generate(context.Background(), models.DefaultGeneratorOptions())
		assert.ErrorIs(t, err, ErrBadRequest)
	}
	assert.Equal(t, int32(5), calls.Load())
}
