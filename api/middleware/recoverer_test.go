package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkmarket/marketplace-backend/pkg/db/models"
	"github.com/parkmarket/marketplace-backend/pkg/logger"
)

func TestRecovererLogsResolvedPrincipals(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})

	r := chi.NewRouter()
	r.Use(Recoverer(logg))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := WithStore(req.Context(), &models.Store{ID: 4})
			ctx = WithCustomer(ctx, &models.Customer{ID: 9})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/orders/{code}", func(http.ResponseWriter, *http.Request) {
		panic("nil order")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/abc", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")

	var entry map[string]any
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		if line["message"] == "panic.recovered" {
			entry = line
		}
	}
	require.NotNil(t, entry, buf.String())
	assert.Equal(t, float64(4), entry["store_id"])
	assert.Equal(t, float64(9), entry["customer_id"])
	assert.Equal(t, "/orders/{code}", entry["route"])
	assert.NotContains(t, entry, "seller_id")
}

func TestRecovererPassesThroughWithoutPanic(t *testing.T) {
	h := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
