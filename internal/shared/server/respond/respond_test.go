package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/boom", func(c *gin.Context) {
		Error(c, http.StatusInternalServerError, "Failed to save project to the database.", errors.New("unique violation"))
	})
	r.GET("/bad", func(c *gin.Context) {
		Error(c, http.StatusBadRequest, "missing field", nil)
	})

	tests := []struct {
		path      string
		status    int
		wantError bool
	}{
		{path: "/boom", status: http.StatusInternalServerError, wantError: true},
		{path: "/bad", status: http.StatusBadRequest, wantError: false},
	}
	for _, tt := range tests {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if resp.Code != tt.status {
			t.Fatalf("%s: status = %d, want %d", tt.path, resp.Code, tt.status)
		}
		var body map[string]any
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode: %v", tt.path, err)
		}
		if body["success"] != false {
			t.Fatalf("%s: success = %v", tt.path, body["success"])
		}
		if _, ok := body["message"]; !ok {
			t.Fatalf("%s: missing message", tt.path)
		}
		if _, ok := body["error"]; ok != tt.wantError {
			t.Fatalf("%s: error present = %v, want %v", tt.path, ok, tt.wantError)
		}
	}
}

func TestSuccessEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/ok", func(c *gin.Context) {
		Success(c, http.StatusCreated, "created", gin.H{"project_id": 1})
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/ok", nil))
	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d", resp.Code)
	}
	var body struct {
		Success bool           `json:"success"`
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Message != "created" || body.Data["project_id"] != float64(1) {
		t.Fatalf("unexpected body: %+v", body)
	}
}
