package bootstrap_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"docshare-backend/internal/bootstrap"
	"docshare-backend/internal/shared/auth"
	"docshare-backend/internal/shared/config"
	"docshare-backend/internal/users"
)

const ownerID = "google:42"

func newApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	app, err := bootstrap.Build(config.Config{
		Port:              "0",
		CORSAllowOrigin:   []string{"http://localhost:5173"},
		AppOrigin:         "http://localhost:5173",
		PublicBaseURL:     "http://localhost:8080",
		Env:               "dev",
		ObjectStoreType:   "memory",
		ShareResolveRate:  100,
		ShareResolveBurst: 100,
	})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	t.Cleanup(app.Close)
	return app
}

func ownerToken(t *testing.T, app *bootstrap.App) string {
	t.Helper()
	user, err := app.UsersService.UpsertFromAuth(context.Background(), users.User{
		ID:          ownerID,
		Email:       "ada@example.com",
		DisplayName: "Ada Lovelace",
	})
	if err != nil {
		t.Fatalf("UpsertFromAuth: %v", err)
	}
	token, err := auth.SignJWT(auth.Claims{Sub: user.ID, Email: user.Email, Handle: user.Handle})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	return token
}

func do(t *testing.T, app *bootstrap.App, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	return resp
}

func TestShareLifecycle(t *testing.T) {
	app := newApp(t)
	token := ownerToken(t, app)

	resp := do(t, app, http.MethodPost, "/api/v1/documents/brands", token, map[string]any{
		"title":   "Ada Studio",
		"palette": []map[string]string{{"name": "Ink", "hex": "#112233"}},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create document: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var doc struct {
		DocumentID string `json:"documentId"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}

	resp = do(t, app, http.MethodPost, "/api/v1/shares", token, map[string]any{
		"kind":     "brand",
		"targetId": doc.DocumentID,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create share: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var share struct {
		ID    string `json:"id"`
		Token string `json:"token"`
		URL   string `json:"url"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &share); err != nil {
		t.Fatalf("decode share: %v", err)
	}
	if share.URL != "http://localhost:5173/share/"+share.Token {
		t.Fatalf("unexpected share url %q", share.URL)
	}

	resp = do(t, app, http.MethodGet, "/api/v1/share/"+share.Token, "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("resolve: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var content struct {
		Kind  string `json:"kind"`
		Brand struct {
			Title string `json:"title"`
		} `json:"brand"`
		Owner struct {
			DisplayName string `json:"displayName"`
			Handle      string `json:"handle"`
		} `json:"owner"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &content); err != nil {
		t.Fatalf("decode content: %v", err)
	}
	if content.Kind != "brand" || content.Brand.Title != "Ada Studio" {
		t.Fatalf("unexpected content: %+v", content)
	}
	if content.Owner.DisplayName != "Ada Lovelace" || content.Owner.Handle != "ada-lovelace" {
		t.Fatalf("unexpected owner: %+v", content.Owner)
	}

	resp = do(t, app, http.MethodGet, "/api/v1/share/"+share.Token+"/pdf", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("shared pdf: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.HasPrefix(resp.Body.String(), "%PDF-") {
		t.Fatalf("expected pdf body")
	}
	if app.Blobs.Len() != 0 {
		t.Fatalf("expected shared pdf blob to be revoked, %d left", app.Blobs.Len())
	}

	resp = do(t, app, http.MethodGet, "/api/v1/shares", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.Code)
	}
	var listed []struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Active bool   `json:"active"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != share.ID || !listed[0].Active {
		t.Fatalf("unexpected listing: %+v", listed)
	}

	resp = do(t, app, http.MethodDelete, "/api/v1/shares/"+share.ID, token, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", resp.Code)
	}

	resp = do(t, app, http.MethodGet, "/api/v1/share/"+share.Token, "", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("resolve after delete: expected 404, got %d", resp.Code)
	}
}

func TestSharesRequireSignedInUser(t *testing.T) {
	app := newApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/shares", strings.NewReader(`{"kind":"brand","targetId":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-Id", "guest-1")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for guest, got %d", resp.Code)
	}
}

func TestExportPDFReturnsBlobURL(t *testing.T) {
	app := newApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/exports/pdf", strings.NewReader(
		`{"cv":{"name":"Ada Lovelace","role":"Analyst","summary":"Numbers"}}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-Id", "guest-1")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var artifact struct {
		URL      string `json:"url"`
		MimeType string `json:"mimeType"`
		Pages    int    `json:"pages"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &artifact); err != nil {
		t.Fatalf("decode artifact: %v", err)
	}
	if artifact.MimeType != "application/pdf" || artifact.Pages < 1 {
		t.Fatalf("unexpected artifact: %+v", artifact)
	}
	path := strings.TrimPrefix(artifact.URL, "http://localhost:8080")
	if !strings.HasPrefix(path, "/api/v1/blobs/") {
		t.Fatalf("unexpected blob url %q", artifact.URL)
	}

	download := httptest.NewRequest(http.MethodGet, path, nil)
	downloadResp := httptest.NewRecorder()
	app.Router.ServeHTTP(downloadResp, download)
	if downloadResp.Code != http.StatusOK {
		t.Fatalf("download: expected 200, got %d", downloadResp.Code)
	}
	if !strings.HasPrefix(downloadResp.Body.String(), "%PDF-") {
		t.Fatalf("expected pdf bytes from blob url")
	}
}

func TestHealthAndMetrics(t *testing.T) {
	app := newApp(t)

	resp := do(t, app, http.MethodGet, "/api/v1/health", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", resp.Code)
	}
	resp = do(t, app, http.MethodGet, "/metrics", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", resp.Code)
	}
}
