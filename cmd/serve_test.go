//go:build !integration

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interleads/radar-cli/internal/config"
	"github.com/interleads/radar-cli/internal/model"
	"github.com/interleads/radar-cli/internal/niche"
	"github.com/interleads/radar-cli/internal/radar"
	"github.com/interleads/radar-cli/pkg/dataforseo"
)

type stubCatalog struct {
	locations []model.Location
	err       error
}

func (s *stubCatalog) ListLocations(_ context.Context) ([]model.Location, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.locations, nil
}

type stubProvider struct {
	volumeRows    []dataforseo.KeywordRow
	expansionRows []dataforseo.KeywordRow
	err           error
}

func (s *stubProvider) SearchVolume(_ context.Context, _ dataforseo.SearchVolumeRequest) ([]dataforseo.KeywordRow, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.volumeRows, nil
}

func (s *stubProvider) KeywordsForKeywords(_ context.Context, _ dataforseo.KeywordsForKeywordsRequest) ([]dataforseo.KeywordRow, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.expansionRows, nil
}

func (s *stubProvider) Locations(_ context.Context, _ string) ([]dataforseo.LocationRow, error) {
	return nil, nil
}

type stubSearchLog struct{}

func (s *stubSearchLog) LogSearch(_ context.Context, _ model.SearchRecord) error { return nil }

func intp(v int) *int { return &v }

func testRouter(t *testing.T, catalog *stubCatalog, provider *stubProvider) http.Handler {
	t.Helper()
	orch := radar.New(
		niche.NewResolver(niche.Canonical()),
		catalog,
		provider,
		&stubSearchLog{},
		config.RadarConfig{LanguageCode: "pt", USDBRLRate: 5.0, ExpansionLimit: 100, DisplayLimit: 20},
	)
	return buildRouter(orch, catalog)
}

func TestServeHealth(t *testing.T) {
	router := testRouter(t, &stubCatalog{}, &stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestServeLocations(t *testing.T) {
	catalog := &stubCatalog{locations: []model.Location{
		{Name: "Recife", LocationCode: 1001643},
		{Name: "São Paulo", LocationCode: 1001773},
	}}
	router := testRouter(t, catalog, &stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/locations", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Locations []model.Location `json:"locations"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Locations, 2)
	assert.Equal(t, "Recife", body.Locations[0].Name)
}

func TestServeLocationsStoreError(t *testing.T) {
	router := testRouter(t, &stubCatalog{err: assert.AnError}, &stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/locations", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Erro ao buscar cidades disponíveis", body.Error)
}

func TestServeSearchExplicitFields(t *testing.T) {
	catalog := &stubCatalog{locations: []model.Location{{Name: "Recife", LocationCode: 1001643}}}
	provider := &stubProvider{
		volumeRows: []dataforseo.KeywordRow{
			{Keyword: "farmácia", SearchVolume: intp(9000)},
		},
		expansionRows: []dataforseo.KeywordRow{
			{Keyword: "farmácia 24 horas", SearchVolume: intp(2000)},
		},
	}
	router := testRouter(t, catalog, provider)

	payload, _ := json.Marshal(searchRequest{Niche: "farmácia", City: "Recife"})
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var report model.OpportunityReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, "Recife", report.City.Name)
	assert.Equal(t, 9000, report.PrimaryKeywordVolume)
	assert.Equal(t, model.GradeB, report.Grade)
}

func TestServeSearchFreeTextQuery(t *testing.T) {
	catalog := &stubCatalog{locations: []model.Location{{Name: "Recife", LocationCode: 1001643}}}
	provider := &stubProvider{
		volumeRows: []dataforseo.KeywordRow{{Keyword: "dentista", SearchVolume: intp(12000)}},
	}
	router := testRouter(t, catalog, provider)

	payload, _ := json.Marshal(searchRequest{Query: "dentista em Recife"})
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var report model.OpportunityReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, model.GradeA, report.Grade)
}

func TestServeSearchParseError(t *testing.T) {
	router := testRouter(t, &stubCatalog{}, &stubProvider{})

	payload, _ := json.Marshal(searchRequest{Query: "farmácia em Xyzville"})
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, `Cidade "Xyzville" não encontrada`, body.Error)
	assert.NotEmpty(t, body.Suggestion)
}

func TestServeSearchEmptyBody(t *testing.T) {
	router := testRouter(t, &stubCatalog{}, &stubProvider{})

	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader([]byte(`{}`)))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Por favor, digite seu segmento e cidade", body.Error)
}

func TestServeSearchCityNotFound(t *testing.T) {
	catalog := &stubCatalog{locations: []model.Location{
		{Name: "São Paulo", LocationCode: 1001773},
		{Name: "São José dos Campos", LocationCode: 1001780},
	}}
	router := testRouter(t, catalog, &stubProvider{})

	payload, _ := json.Marshal(searchRequest{Niche: "farmácia", City: "Sao Jo"})
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "não encontrada")
	assert.NotEmpty(t, body.Suggestions)
}

func TestServeSearchProviderFailure(t *testing.T) {
	catalog := &stubCatalog{locations: []model.Location{{Name: "Recife", LocationCode: 1001643}}}
	provider := &stubProvider{err: &dataforseo.APIError{StatusCode: 40200, Message: "payment required"}}
	router := testRouter(t, catalog, provider)

	payload, _ := json.Marshal(searchRequest{Niche: "farmácia", City: "Recife"})
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "status 40200")
}

func TestServeSearchCORSPreflight(t *testing.T) {
	router := testRouter(t, &stubCatalog{}, &stubProvider{})

	req := httptest.NewRequest(http.MethodOptions, "/api/search", nil)
	req.Header.Set("Origin", "https://radar.interleads.com.br")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
