package monitor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusHandlerReflectsLastObservation(t *testing.T) {
	m := New()
	m.Observe(3, 42.5, []float64{1, 2, 3}, 16)

	req := httptest.NewRequest(http.MethodGet, statusEntryPoint, nil)
	rec := httptest.NewRecorder()
	m.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Generation     int `json:"generation"`
		PopulationSize int `json:"population_size"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 3, got.Generation)
	assert.Equal(t, 16, got.PopulationSize)
}

func TestBestHandlerReturnsGenes(t *testing.T) {
	m := New()
	m.Observe(1, 7.0, []float64{9, 8}, 4)

	req := httptest.NewRequest(http.MethodGet, bestEntryPoint, nil)
	rec := httptest.NewRecorder()
	m.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []float64{9, 8}, got.BestGenes)
	assert.Equal(t, 7.0, got.BestFitness)
}

func TestBestHandlerBeforeAnyObservationReturnsZeroValue(t *testing.T) {
	m := New()

	req := httptest.NewRequest(http.MethodGet, bestEntryPoint, nil)
	rec := httptest.NewRecorder()
	m.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 0, got.Generation)
	assert.Empty(t, got.BestGenes)
}

func TestMetricsEndpointExposesGauges(t *testing.T) {
	m := New()
	m.Observe(2, 1.5, []float64{0}, 8)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "simga_ga_generation")
	assert.Contains(t, rec.Body.String(), "simga_ga_best_fitness")
}

func TestTwoMonitorsDoNotCollideOnRegistration(t *testing.T) {
	require.NotPanics(t, func() {
		New()
		New()
	})
}
