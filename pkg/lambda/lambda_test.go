package lambda

import (
	"context"
	"encoding/base64"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"gst-invoice-api/internal/config"
)

func TestFromAPIGateway(t *testing.T) {
	tests := []struct {
		name    string
		event   events.APIGatewayProxyRequest
		want    string
		wantErr bool
	}{
		{
			name:  "plain body",
			event: events.APIGatewayProxyRequest{HTTPMethod: "POST", Path: "/api/v1/invoices", Body: `{"a":1}`},
			want:  `{"a":1}`,
		},
		{
			name: "base64 body",
			event: events.APIGatewayProxyRequest{
				HTTPMethod:      "POST",
				Body:            base64.StdEncoding.EncodeToString([]byte(`{"a":1}`)),
				IsBase64Encoded: true,
			},
			want: `{"a":1}`,
		},
		{
			name:    "malformed base64",
			event:   events.APIGatewayProxyRequest{Body: "%%%", IsBase64Encoded: true},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := FromAPIGateway(tt.event)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("FromAPIGateway() failed: %v", err)
			}
			if string(req.Body) != tt.want {
				t.Errorf("Body = %q, want %q", req.Body, tt.want)
			}
		})
	}
}

func TestResponse_ToAPIGateway(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		wantBase64  bool
	}{
		{"json", "application/json; charset=utf-8", false},
		{"no content type", "", false},
		{"pdf", "application/pdf", true},
		{"workbook", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", true},
	}

	body := []byte("%PDF-1.3")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := (&Response{
				StatusCode: http.StatusOK,
				Headers:    map[string]string{"Content-Type": tt.contentType},
				Body:       body,
			}).ToAPIGateway()

			if resp.IsBase64Encoded != tt.wantBase64 {
				t.Errorf("IsBase64Encoded = %v, want %v", resp.IsBase64Encoded, tt.wantBase64)
			}
			if tt.wantBase64 && resp.Body != base64.StdEncoding.EncodeToString(body) {
				t.Errorf("Body = %q", resp.Body)
			}
		})
	}
}

func TestHTTPHandler(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("X-Client", r.RemoteAddr)
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(r.Method + " " + r.URL.Query().Get("q")))
	})

	handler := HTTPHandler(mux)
	resp, err := handler(context.Background(), &Request{
		Method:      "GET",
		Path:        "/echo",
		QueryParams: map[string]string{"q": "dosa"},
		Headers:     map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"},
	})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("StatusCode = %d, want 202", resp.StatusCode)
	}
	if string(resp.Body) != "GET dosa" {
		t.Errorf("Body = %q, want %q", resp.Body, "GET dosa")
	}
	if resp.Headers["X-Client"] != "10.0.0.1:0" {
		t.Errorf("RemoteAddr = %q", resp.Headers["X-Client"])
	}

	resp, _ = handler(context.Background(), &Request{Method: "GET", Path: "/missing"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", resp.StatusCode)
	}
}

func TestConnectionManager_Handle(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "lambda_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	cfg := &config.Config{
		Environment: "test",
		Port:        "8080",
		Log:         config.LogConfig{Level: "warn", Format: "json"},
		Database: config.DatabaseConfig{
			ConnectionString: filepath.Join(tempDir, "gst.db"),
			MaxOpenConns:     1,
			MaxIdleConns:     1,
			ConnMaxLifetime:  time.Hour,
			AutoMigrate:      true,
		},
		Storage: config.StorageConfig{Type: "memory"},
		GST: config.GSTSettings{
			CountryCode:      "IN",
			CompanyCode:      "INV",
			CompanyStateCode: "29",
			ReturnCode:       "RET",
			Numbering:        "sequence",
		},
	}

	cm := &ConnectionManager{}
	if cm.IsHealthy() {
		t.Error("IsHealthy() should be false before Initialize()")
	}
	if err := cm.Initialize(cfg); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}
	defer cm.Cleanup()

	resp, err := cm.Handle(context.Background(), &Request{Method: "GET", Path: "/api/v1/gst/info"})
	if err != nil {
		t.Fatalf("Handle() failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200: %s", resp.StatusCode, resp.Body)
	}
	if !cm.IsHealthy() {
		t.Error("IsHealthy() should be true after a request")
	}

	if err := cm.Cleanup(); err != nil {
		t.Fatalf("Cleanup() failed: %v", err)
	}
	if cm.IsHealthy() {
		t.Error("IsHealthy() should be false after Cleanup()")
	}
}
