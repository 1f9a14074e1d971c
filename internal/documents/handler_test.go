package documents_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"docshare-backend/internal/bootstrap"
	"docshare-backend/internal/shared/config"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		AppOrigin:       "http://localhost:5173",
		Env:             "dev",
		ObjectStoreType: "memory",
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	t.Cleanup(app.Close)
	return app.Router
}

func TestDocumentsCreateGetListDelete(t *testing.T) {
	router := newRouter(t)

	body := []byte(`{"title":"Ada Studio","palette":[{"name":"Ink","hex":"#112233"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/brands", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req, "test-guest")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		DocumentID string `json:"documentId"`
		Kind       string `json:"kind"`
		Title      string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.DocumentID == "" || created.Kind != "brand" || created.Title != "Ada Studio" {
		t.Fatalf("unexpected create response: %+v", created)
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+created.DocumentID, nil)
	addGuestHeader(reqGet, "test-guest")
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)
	if respGet.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respGet.Code)
	}
	var fetched struct {
		Document struct {
			Palette []struct {
				Hex string `json:"hex"`
			} `json:"palette"`
		} `json:"document"`
	}
	if err := json.NewDecoder(respGet.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	if len(fetched.Document.Palette) != 1 || fetched.Document.Palette[0].Hex != "#112233" {
		t.Fatalf("unexpected document body: %+v", fetched)
	}

	reqOther := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+created.DocumentID, nil)
	addGuestHeader(reqOther, "someone-else")
	respOther := httptest.NewRecorder()
	router.ServeHTTP(respOther, reqOther)
	if respOther.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for other owner, got %d", respOther.Code)
	}

	reqList := httptest.NewRequest(http.MethodGet, "/api/v1/documents?kind=brand", nil)
	addGuestHeader(reqList, "test-guest")
	respList := httptest.NewRecorder()
	router.ServeHTTP(respList, reqList)
	var listed []map[string]any
	if err := json.NewDecoder(respList.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 listed document, got %d", len(listed))
	}

	reqDel := httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+created.DocumentID, nil)
	addGuestHeader(reqDel, "test-guest")
	respDel := httptest.NewRecorder()
	router.ServeHTTP(respDel, reqDel)
	if respDel.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", respDel.Code)
	}
}

func TestDocumentsRejectInvalidCV(t *testing.T) {
	router := newRouter(t)

	body := []byte(`{"name":"","links":[]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/cvs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req, "test-guest")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestDocumentsRequireIdentity(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func addGuestHeader(req *http.Request, id string) {
	req.Header.Set("X-Guest-Id", id)
}
