package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"media-gallery/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStatusRecorder(t *testing.T) {
	w := httptest.NewRecorder()
	rw := newStatusRecorder(w)

	if rw.statusCode != http.StatusOK {
		t.Errorf("default statusCode = %d, want 200", rw.statusCode)
	}

	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusInternalServerError)
	if rw.statusCode != http.StatusNotFound {
		t.Errorf("statusCode = %d, want first value 404", rw.statusCode)
	}

	if _, err := rw.Write([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	if _, err := rw.Write([]byte(" world")); err != nil {
		t.Fatal(err)
	}
	if rw.bytesWritten != 11 {
		t.Errorf("bytesWritten = %d, want 11", rw.bytesWritten)
	}
	if rw.Unwrap() != w {
		t.Error("Unwrap() should return the wrapped writer")
	}
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestLoggerMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		config        LoggingConfig
		expectLogging bool
	}{
		{name: "Logs listing requests", path: "/api/gallery", config: DefaultLoggingConfig(), expectLogging: true},
		{name: "Skips thumbnails with static files", path: "/api/thumbnail", config: DefaultLoggingConfig(), expectLogging: false},
		{name: "Logs thumbnails when static logging on", path: "/api/thumbnail", config: LoggingConfig{LogStaticFiles: true}, expectLogging: true},
		{name: "Skips media by extension", path: "/media/album/a.JPG", config: DefaultLoggingConfig(), expectLogging: false},
		{name: "Logs health checks when enabled", path: "/health", config: LoggingConfig{LogHealthChecks: true, LogStaticFiles: true}, expectLogging: true},
		{name: "Skips health checks when disabled", path: "/health", config: LoggingConfig{LogHealthChecks: false}, expectLogging: false},
		{name: "Skips configured paths", path: "/debug/x", config: LoggingConfig{SkipPaths: []string{"/debug"}, LogStaticFiles: true}, expectLogging: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)

			handler := Logger(tt.config)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTeapot)
				_, _ = w.Write([]byte("ok"))
			}))

			req := httptest.NewRequest(http.MethodGet, tt.path+"?dir=a", http.NoBody)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusTeapot {
				t.Errorf("status = %d, want 418", w.Code)
			}

			logged := strings.Contains(buf.String(), " "+tt.path+" ")
			if logged != tt.expectLogging {
				t.Errorf("logged = %v, want %v; output: %q", logged, tt.expectLogging, buf.String())
			}
			if tt.expectLogging && !strings.Contains(buf.String(), " dir=a 418 2 ") {
				t.Errorf("log line missing query/status/bytes: %q", buf.String())
			}
		})
	}
}

func TestLoggerWritesFieldsHeaderOnce(t *testing.T) {
	buf := captureLog(t)

	handler := Logger(DefaultLoggingConfig())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	for i := 0; i < 3; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/gallery", http.NoBody))
	}

	if got := strings.Count(buf.String(), "#Fields:"); got != 1 {
		t.Errorf("#Fields directive written %d times, want 1", got)
	}
	if !strings.Contains(buf.String(), "#Software: MediaGallery/1.0") {
		t.Errorf("missing #Software directive: %q", buf.String())
	}
}

func TestSanitizeLogField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"line\nbreak", "line break"},
		{"cr\rlf", "cr lf"},
		{"nul\x00byte", "nulbyte"},
		{"\x1b[31mred", "[31mred"},
		{"tab\tkept", "tab\tkept"},
		{"del\x7f", "del"},
	}

	for _, tt := range tests {
		if got := sanitizeLogField(tt.in); got != tt.want {
			t.Errorf("sanitizeLogField(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeW3CField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"curl/8.0", "curl/8.0"},
		{"Mozilla/5.0 (X11)", `"Mozilla/5.0 (X11)"`},
		{`say "hi"`, `"say ""hi"""`},
		{"", ""},
	}

	for _, tt := range tests {
		if got := escapeW3CField(tt.in); got != tt.want {
			t.Errorf("escapeW3CField(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "forwarded chain", headers: map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, remote: "1.2.3.4:5", want: "10.0.0.1"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "10.0.0.9"}, remote: "1.2.3.4:5", want: "10.0.0.9"},
		{name: "remote addr", remote: "192.168.1.5:4321", want: "192.168.1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompressionMiddleware(t *testing.T) {
	tests := []struct {
		name              string
		responseBody      string
		contentType       string
		acceptEncoding    string
		expectCompression bool
	}{
		{name: "Compresses large JSON", responseBody: strings.Repeat(`{"key":"value"}`, 200), contentType: "application/json", acceptEncoding: "gzip", expectCompression: true},
		{name: "Doesn't compress small responses", responseBody: `{"a":1}`, contentType: "application/json", acceptEncoding: "gzip", expectCompression: false},
		{name: "Doesn't compress images", responseBody: strings.Repeat("data", 500), contentType: "image/jpeg", acceptEncoding: "gzip", expectCompression: false},
		{name: "Respects client without gzip support", responseBody: strings.Repeat("data", 500), contentType: "application/json", acceptEncoding: "", expectCompression: false},
	}

	compress, err := Compression(DefaultCompressionConfig())
	if err != nil {
		t.Fatalf("Compression() error = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := compress(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				_, _ = w.Write([]byte(tt.responseBody))
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/gallery", http.NoBody)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			compressed := w.Header().Get("Content-Encoding") == "gzip"
			if compressed != tt.expectCompression {
				t.Fatalf("compressed = %v, want %v", compressed, tt.expectCompression)
			}

			body := w.Body.Bytes()
			if compressed {
				zr, err := gzip.NewReader(bytes.NewReader(body))
				if err != nil {
					t.Fatalf("gzip.NewReader: %v", err)
				}
				if body, err = io.ReadAll(zr); err != nil {
					t.Fatalf("decompress: %v", err)
				}
			}
			if string(body) != tt.responseBody {
				t.Errorf("body mismatch after round trip (len %d, want %d)", len(body), len(tt.responseBody))
			}
		})
	}
}

func TestCompressionRejectsBadLevel(t *testing.T) {
	cfg := DefaultCompressionConfig()
	cfg.Level = 42
	if _, err := Compression(cfg); err == nil {
		t.Error("Compression() with invalid level should fail")
	}
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	router := mux.NewRouter()
	router.Use(Metrics(DefaultMetricsConfig()))
	router.HandleFunc("/media/{path:.*}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/media/{path:.*}", "404")
	before := testutil.ToFloat64(counter)

	for _, p := range []string{"/media/a/b.jpg", "/media/c/d/e.png"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, http.NoBody))
	}

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("requests under route template = %v, want 2", got)
	}
}

func TestMetricsMiddlewareSkipPaths(t *testing.T) {
	handler := Metrics(DefaultMetricsConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "other", "200")
	before := testutil.ToFloat64(counter)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))

	if got := testutil.ToFloat64(counter) - before; got != 0 {
		t.Errorf("health check was recorded: delta %v", got)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/media/a/b/c.jpg", "/media/{path}"},
		{"/api/gallery", "/api/gallery"},
		{"/api/thumbnail/extra", "/api/thumbnail"},
		{"/version", "/version"},
		{"/", "/"},
		{"/wp-admin/install.php", "other"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
