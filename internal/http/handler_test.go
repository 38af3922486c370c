package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fenview/internal/board"
	"fenview/internal/cache"
	"fenview/internal/core"
	"fenview/internal/service"
	"fenview/internal/storage"

	"github.com/gofiber/fiber/v2"
)

const testSecret = "test-secret-minimum-32-characters-long"

type testEnv struct {
	app   *fiber.App
	svc   *service.Service
	token string
}

func newTestEnv(t *testing.T, withStore bool) *testEnv {
	t.Helper()

	c, err := cache.Open("", time.Minute)
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	var store *storage.Store
	if withStore {
		store, err = storage.NewStore(filepath.Join(t.TempDir(), "api.db"), false)
		if err != nil {
			t.Fatalf("NewStore: %v", err)
		}
		if err := store.InitDB(); err != nil {
			t.Fatalf("InitDB: %v", err)
		}
		t.Cleanup(func() { store.Close() })
	}

	svc := service.New(store, c, []byte(testSecret))
	token, _, err := svc.IssueToken("tester", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	return &testEnv{
		app:   NewFiberApp(svc, Config{Quiet: true}),
		svc:   svc,
		token: token,
	}
}

func (e *testEnv) do(t *testing.T, method, target, body, token string) (int, string, string) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, resp.Header.Get("Content-Type"), string(data)
}

func decodeError(t *testing.T, body string) core.ErrorResponse {
	t.Helper()
	var e core.ErrorResponse
	if err := json.Unmarshal([]byte(body), &e); err != nil {
		t.Fatalf("error body is not JSON: %q", body)
	}
	return e
}

func boardURL(fen string, extra string) string {
	u := "/api/v1/board?fen=" + url.QueryEscape(fen)
	if extra != "" {
		u += "&" + extra
	}
	return u
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, false)
	status, _, body := env.do(t, "GET", "/health", "", "")
	if status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body, `"storage":"disabled"`) || !strings.Contains(body, `"cache":"ok"`) {
		t.Fatalf("health body = %s", body)
	}
}

func TestGetBoardFormats(t *testing.T) {
	env := newTestEnv(t, false)

	tests := []struct {
		extra       string
		contentType string
		contains    string
	}{
		{"", "text/plain; charset=utf-8", "\033[0;30;47m♜ "},
		{"format=text", "text/plain; charset=utf-8", "1 R N B Q K B N R  1"},
		{"format=ansi&theme=off", "text/plain; charset=utf-8", "R N B Q K B N R \n"},
		{"format=ansi&theme=OFF", "text/plain; charset=utf-8", "R N B Q K B N R \n"},
		{"theme=Brown", "text/plain; charset=utf-8", "\033[0;30;48;5;230m♜ "},
		{"format=svg&size=16", "image/svg+xml", `viewBox="0 0 128 128"`},
		{"format=png&size=8", "image/png", "PNG"},
		{"format=json", "application/json", `"pieces":32`},
	}

	for _, tt := range tests {
		t.Run(tt.extra, func(t *testing.T) {
			status, ct, body := env.do(t, "GET", boardURL(board.StartingFEN, tt.extra), "", "")
			if status != fiber.StatusOK {
				t.Fatalf("status = %d, body %s", status, body)
			}
			if ct != tt.contentType {
				t.Errorf("content type = %q, want %q", ct, tt.contentType)
			}
			if !strings.Contains(body, tt.contains) {
				t.Errorf("body does not contain %q", tt.contains)
			}
		})
	}
}

func TestGetBoardErrors(t *testing.T) {
	env := newTestEnv(t, false)

	tests := []struct {
		target string
		code   string
	}{
		{"/api/v1/board", core.ErrInvalidRequest},
		{boardURL("8/8/8/8/8/8/8", ""), core.ErrInvalidFEN},
		{boardURL("pppppppx/8/8/8/8/8/8/8", ""), core.ErrInvalidFEN},
		{boardURL("9/8/8/8/8/8/8/8", ""), core.ErrInvalidFEN},
		{boardURL(board.StartingFEN, "format=gif"), core.ErrInvalidRequest},
		{boardURL(board.StartingFEN, "theme=neon"), core.ErrInvalidRequest},
		{boardURL(board.StartingFEN, "format=png&size=4096"), core.ErrInvalidRequest},
	}

	for _, tt := range tests {
		status, _, body := env.do(t, "GET", tt.target, "", "")
		if status != fiber.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.target, status)
			continue
		}
		if e := decodeError(t, body); e.Code != tt.code {
			t.Errorf("%s: code = %q, want %q", tt.target, e.Code, tt.code)
		}
	}
}

func TestThemes(t *testing.T) {
	env := newTestEnv(t, false)
	status, _, body := env.do(t, "GET", "/api/v1/themes", "", "")
	if status != fiber.StatusOK || !strings.Contains(body, `"default":"classic"`) {
		t.Fatalf("themes = %d %s", status, body)
	}
}

func TestPositionLifecycle(t *testing.T) {
	env := newTestEnv(t, true)
	payload := `{"name":"sicilian","fen":"rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2"}`

	status, _, body := env.do(t, "POST", "/api/v1/positions", payload, "")
	if status != fiber.StatusUnauthorized {
		t.Fatalf("unauthenticated create = %d %s", status, body)
	}

	status, _, body = env.do(t, "POST", "/api/v1/positions", payload, env.token)
	if status != fiber.StatusCreated {
		t.Fatalf("create = %d %s", status, body)
	}
	var pos core.PositionResponse
	if err := json.Unmarshal([]byte(body), &pos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !isValidUUID(pos.PositionID) || pos.FEN != "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR" {
		t.Fatalf("created position = %+v", pos)
	}

	status, _, body = env.do(t, "GET", "/api/v1/positions/"+pos.PositionID, "", "")
	if status != fiber.StatusOK || !strings.Contains(body, `"name":"sicilian"`) {
		t.Fatalf("get = %d %s", status, body)
	}

	status, _, body = env.do(t, "GET", "/api/v1/positions?name=sicilian", "", "")
	if status != fiber.StatusOK || !strings.Contains(body, `"count":1`) {
		t.Fatalf("list = %d %s", status, body)
	}

	status, _, body = env.do(t, "GET", "/api/v1/positions/"+pos.PositionID+"/board?format=json", "", "")
	if status != fiber.StatusOK || !strings.Contains(body, `"pieces":32`) {
		t.Fatalf("board = %d %s", status, body)
	}

	status, _, _ = env.do(t, "DELETE", "/api/v1/positions/"+pos.PositionID, "", "")
	if status != fiber.StatusUnauthorized {
		t.Fatalf("unauthenticated delete = %d", status)
	}
	status, _, _ = env.do(t, "DELETE", "/api/v1/positions/"+pos.PositionID, "", env.token)
	if status != fiber.StatusNoContent {
		t.Fatalf("delete = %d", status)
	}

	status, _, body = env.do(t, "GET", "/api/v1/positions/"+pos.PositionID, "", "")
	if status != fiber.StatusNotFound || decodeError(t, body).Code != core.ErrPositionNotFound {
		t.Fatalf("get after delete = %d %s", status, body)
	}
}

func TestCreatePositionValidation(t *testing.T) {
	env := newTestEnv(t, true)

	tests := []struct {
		body   string
		status int
		code   string
	}{
		{`{"fen":"8/8/8/8/8/8/8/8"}`, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{`{"name":"x"}`, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{`{"name":"x","fen":"8/8/8"}`, fiber.StatusBadRequest, core.ErrInvalidFEN},
		{`not json`, fiber.StatusBadRequest, core.ErrInvalidRequest},
	}

	for _, tt := range tests {
		status, _, body := env.do(t, "POST", "/api/v1/positions", tt.body, env.token)
		if status != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.body, status, tt.status)
			continue
		}
		if e := decodeError(t, body); e.Code != tt.code {
			t.Errorf("%s: code = %q, want %q", tt.body, e.Code, tt.code)
		}
	}
}

func TestCreatePositionChecksTokenBeforeBody(t *testing.T) {
	env := newTestEnv(t, true)

	for _, body := range []string{`{"name":"x"}`, `not json`} {
		status, _, resp := env.do(t, "POST", "/api/v1/positions", body, "")
		if status != fiber.StatusUnauthorized {
			t.Errorf("%s without token: status = %d, want 401", body, status)
			continue
		}
		if e := decodeError(t, resp); e.Code != core.ErrUnauthorized || e.Details != "" {
			t.Errorf("%s without token: error = %+v", body, e)
		}
	}
}

func TestPositionsWithoutStorage(t *testing.T) {
	env := newTestEnv(t, false)

	status, _, body := env.do(t, "GET", "/api/v1/positions", "", "")
	if status != fiber.StatusServiceUnavailable || decodeError(t, body).Code != core.ErrStorageDisabled {
		t.Fatalf("list without storage = %d %s", status, body)
	}
}

func TestInvalidPositionID(t *testing.T) {
	env := newTestEnv(t, true)
	status, _, body := env.do(t, "GET", "/api/v1/positions/not-a-uuid", "", "")
	if status != fiber.StatusBadRequest || decodeError(t, body).Code != core.ErrInvalidRequest {
		t.Fatalf("status = %d %s", status, body)
	}
}

func TestWrongContentType(t *testing.T) {
	env := newTestEnv(t, true)

	req := httptest.NewRequest("POST", "/api/v1/positions", strings.NewReader("name=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+env.token)
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusUnsupportedMediaType {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestRateLimit(t *testing.T) {
	svc := service.New(nil, nil, []byte(testSecret))
	app := NewFiberApp(svc, Config{RateLimit: 2, Quiet: true})

	limited := false
	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/themes", nil), -1)
		if err != nil {
			t.Fatalf("Test: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode == fiber.StatusTooManyRequests {
			limited = true
		}
	}
	if !limited {
		t.Fatalf("five immediate requests were not limited at 2/s")
	}
}

func TestCacheHeader(t *testing.T) {
	env := newTestEnv(t, false)
	target := boardURL("4k3/8/8/8/8/8/8/4K3", "format=svg")

	for i, want := range []string{"MISS", "HIT"} {
		req := httptest.NewRequest("GET", target, nil)
		resp, err := env.app.Test(req, -1)
		if err != nil {
			t.Fatalf("Test: %v", err)
		}
		resp.Body.Close()
		if got := resp.Header.Get("X-Cache"); got != want {
			t.Errorf("request %d X-Cache = %q, want %q", i, got, want)
		}
	}
}
