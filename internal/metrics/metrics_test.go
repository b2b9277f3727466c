package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/linkdeck/internal/linkschema"
)

func TestObserveValidation(t *testing.T) {
	validBefore := testutil.ToFloat64(recordsValidated.WithLabelValues("links", "valid"))
	invalidBefore := testutil.ToFloat64(recordsValidated.WithLabelValues("links", "invalid"))
	orderBefore := testutil.ToFloat64(fieldFailures.WithLabelValues("links", "order", "out_of_range"))

	ObserveValidation("links", nil)

	_, err := linkschema.Validate(map[string]any{
		"title":   "Y",
		"href":    "https://y.example.com",
		"section": "Utilities",
		"order":   0,
	})
	require.Error(t, err)
	ObserveValidation("links", err)
	ObserveValidation("links", errors.New("not a validation error"))

	assert.InDelta(t, validBefore+1, testutil.ToFloat64(recordsValidated.WithLabelValues("links", "valid")), 0)
	assert.InDelta(t, invalidBefore+2, testutil.ToFloat64(recordsValidated.WithLabelValues("links", "invalid")), 0)
	assert.InDelta(t, orderBefore+1, testutil.ToFloat64(fieldFailures.WithLabelValues("links", "order", "out_of_range")), 0)
}

func TestSetLinkCountsAndReload(t *testing.T) {
	SetLinkCounts(3, 1, 2)
	assert.InDelta(t, 3, testutil.ToFloat64(links.WithLabelValues("active")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(links.WithLabelValues("disabled")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(links.WithLabelValues("rejected")), 0)

	before := testutil.ToFloat64(reloads.WithLabelValues(ReloadUnchanged))
	ObserveReload(ReloadUnchanged, 5*time.Millisecond)
	assert.InDelta(t, before+1, testutil.ToFloat64(reloads.WithLabelValues(ReloadUnchanged)), 0)
}

func TestHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "linkdeck_records_validated_total")
	assert.Contains(t, rec.Body.String(), "linkdeck_reloads_total")
}
