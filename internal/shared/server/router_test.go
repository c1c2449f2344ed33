package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cost-estimator/internal/estimates"
	"cost-estimator/internal/llm"
	"cost-estimator/internal/projects"
	"cost-estimator/internal/shared/config"
	localstore "cost-estimator/internal/shared/storage/object/local"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc := &projects.Service{
		Repo:  projects.NewMemoryRepo(),
		Store: localstore.New(t.TempDir()),
		Estimator: &estimates.Service{
			LLM:     llm.PlaceholderClient{},
			Repo:    estimates.NewMemoryRepo(),
			Catalog: estimates.DefaultCatalog(),
		},
		AllowedExtensions: []string{"txt", "docx", "pdf"},
	}
	return NewRouter(RouterDeps{
		Config:          config.Config{CORSAllowOrigin: []string{"http://localhost:3000"}},
		ProjectsHandler: projects.NewHandler(svc, 0),
	})
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"success":true,"database":"memory"}`, resp.Body.String())
	assert.NotEmpty(t, resp.Header().Get("X-Request-Id"))
}

func TestIntakeMountedAtRootAndAPI(t *testing.T) {
	r := newTestRouter(t)
	for _, path := range []string{"/projectDetails", "/api/v1/projectDetails"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("project_name=x"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)

		require.Equal(t, http.StatusBadRequest, resp.Code, path)
		assert.Contains(t, resp.Body.String(), "All required fields", path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "projects_created_total")
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":8080", Addr(""))
	assert.Equal(t, ":9000", Addr("9000"))
	assert.Equal(t, ":9000", Addr(":9000"))
}
