package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/posline/escpos-engine/internal/config"
	"github.com/posline/escpos-engine/internal/printer"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Receipt.PaperWidth = "80mm"
	cfg.Receipt.CurrencySymbol = "$"
	cfg.Receipt.CurrencyPosition = "before"

	manager, err := printer.NewManager(filepath.Join(t.TempDir(), "printers.json"), zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	pool := printer.NewPool(0)
	queue := printer.NewQueue(pool, manager, 1, zap.NewNop())
	t.Cleanup(queue.Stop)

	return NewServer(cfg, manager, pool, queue, zap.NewNop())
}

func postJSON(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func encodedPayload(t *testing.T, w *httptest.ResponseRecorder) []byte {
	t.Helper()

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Payload string `json:"payload"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	payload, err := base64.StdEncoding.DecodeString(resp.Payload)
	if err != nil {
		t.Fatalf("Payload is not valid base64: %v", err)
	}
	return payload
}

func TestEncodeEndpoint_CharsPerLineOverride(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name     string
		document string
		lineLen  int
	}{
		{
			name:     "derived from paper width",
			document: `{"version":"1.0","paper_width":"80mm","items":[{"type":"line"}]}`,
			lineLen:  48,
		},
		{
			name:     "explicit override",
			document: `{"version":"1.0","paper_width":"80mm","chars_per_line":40,"items":[{"type":"line"}]}`,
			lineLen:  40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, s, "/encode", `{"document":`+tt.document+`}`)
			payload := encodedPayload(t, w)

			// init + line chars + LF
			if len(payload) != 2+tt.lineLen+1 {
				t.Errorf("Expected %d payload bytes, got %d", 2+tt.lineLen+1, len(payload))
			}
		})
	}
}

func TestEncodeEndpoint_AppliesVariables(t *testing.T) {
	s := testServer(t)

	body := `{
		"document": {
			"version": "1.0",
			"variables": [{"name": "customer"}],
			"items": [{"type": "text", "value": "{{customer}}"}]
		},
		"variables": {"customer": "Ada"}
	}`
	payload := encodedPayload(t, postJSON(t, s, "/encode", body))

	if !strings.Contains(string(payload), "Ada") {
		t.Errorf("Expected substituted value in payload, got % X", payload)
	}
}

func TestEncodeEndpoint_RejectsEmptyRequest(t *testing.T) {
	s := testServer(t)

	if w := postJSON(t, s, "/encode", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty request, got %d", w.Code)
	}
}
