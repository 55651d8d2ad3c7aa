package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sitemapper"
	"github.com/google/uuid"
)

// ShutdownTimeout is the time given for outstanding requests to finish before shutdown.
const ShutdownTimeout = 5 * time.Second

// maxRequestBytes caps JSON request bodies.
const maxRequestBytes = 1 << 20

// Usage is the plain-text body served at GET /.
const Usage = `To request URLs, post the link to the XML as {"sitemap":"https://stackovercode.com/sitemap.xml"}`

// Error messages returned in the "error" field of JSON responses.
const (
	ErrMsgInvalidURL  = "Not a valid URL"
	ErrMsgParseFailed = "Failed to parse sitemap"
	ErrMsgInvalidJSON = "Invalid JSON body"
)

const (
	requestIDHeader    = "X-Request-Id"
	jsonContentType    = "application/json"
	plainTextMediaType = "text/plain; charset=utf-8"
)

// Server is the JSON API in front of the sitemap locator and downloader.
//
// Domain-level failures never change the status code: they are answered with
// 200 and a JSON body carrying an "error" field.
type Server struct {
	ln     net.Listener
	server *http.Server

	// Bind address for the server's listener.
	Addr string

	// Services used by the various HTTP routes.
	Locator    sitemapper.SitemapLocator
	Downloader sitemapper.SitemapDownloader

	Logger *slog.Logger
}

// NewServer returns a new instance of Server.
func NewServer() *Server {
	s := &Server{
		server: &http.Server{
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 300 * time.Second, // nested indexes can take a while
			IdleTimeout:  60 * time.Second,
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /echo", s.handleEcho)
	mux.HandleFunc("POST /sitemap", s.handleSitemap)
	mux.HandleFunc("POST /domain", s.handleDomain)

	s.server.Handler = s.withLogging(mux)
	return s
}

// Open begins listening on the bind address and serves in the background.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}

	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("http server stopped", "err", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// URL returns the local base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// ServeHTTP routes a request through the server's middleware and handlers.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.server.Handler.ServeHTTP(w, r)
}

// handleIndex returns usage instructions.
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", plainTextMediaType)
	_, _ = io.WriteString(w, Usage)
}

// handleEcho returns the JSON request body unchanged.
func (s *Server) handleEcho(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil || !json.Valid(body) {
		s.errorResponse(w, http.StatusBadRequest, ErrMsgInvalidJSON)
		return
	}

	w.Header().Set("Content-Type", jsonContentType)
	_, _ = w.Write(body)
}

// handleSitemap downloads the sitemap named in the request body.
func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sitemap any `json:"sitemap"`
	}
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, ErrMsgInvalidJSON)
		return
	}

	s.jsonResponse(w, http.StatusOK, s.download(r.Context(), req.Sitemap))
}

// handleDomain locates the sitemap of the domain in the request body and
// downloads it. A failed lookup is answered as if no URL had been given.
func (s *Server) handleDomain(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Domain any `json:"domain"`
	}
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, ErrMsgInvalidJSON)
		return
	}

	domain, _ := req.Domain.(string)
	sitemapURL, err := s.Locator.LocateSitemap(r.Context(), domain)
	if err != nil {
		s.Logger.Warn("sitemap discovery failed",
			"domain", domain,
			"code", sitemapper.ErrorCode(err),
			"err", err,
		)
		sitemapURL = ""
	}

	s.jsonResponse(w, http.StatusOK, s.download(r.Context(), sitemapURL))
}

// download validates v as a sitemap URL and runs the downloader, mapping every
// failure to an error body.
func (s *Server) download(ctx context.Context, v any) any {
	if err := sitemapper.ValidateSitemapURL(v); err != nil {
		return errorBody{Error: ErrMsgInvalidURL}
	}
	sitemapURL := v.(string)

	sm, err := s.Downloader.Download(ctx, sitemapURL)
	if err != nil {
		s.Logger.Error("sitemap download failed", "url", sitemapURL, "err", err)
		return errorBody{Error: ErrMsgParseFailed}
	}
	return sm
}

type errorBody struct {
	Error string `json:"error"`
}

// decodeJSON decodes a size-limited request body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(v)
}

// jsonResponse writes data as JSON with an ETag derived from the encoded body.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		s.Logger.Error("encoding JSON response", "err", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"Internal error."}`)
	}

	w.Header().Set("Content-Type", jsonContentType)
	w.Header().Set("ETag", `"`+strconv.FormatUint(xxhash.Sum64(body), 16)+`"`)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, errorBody{Error: message})
}

// withLogging tags each request with an ID and logs it once it completes.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()
		id := uuid.NewString()
		w.Header().Set(requestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.Logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(begin),
			"request_id", id,
		)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
