// Package mock provides an echo HTTP server for exercising clients.
//
// Routes:
//
//	*   /echo            reflects the request body and Content-Type
//	GET /status/{code}   answers with code and its reason phrase
//	*   /headers         returns the request headers as JSON
//	GET /redirect/{n}    redirects n times, then lands on /echo
//
// Anything else is a 404 with the body "Not Found".
package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/xhrkit/packages/log"
	"github.com/google/uuid"
)

var logger = log.NewLoggerForModule("xhrkit.mock")

// Server is an echo HTTP server
type Server struct {
	router *Router
	port   int
	delay  time.Duration
}

// Option is a functional option for Server
type Option func(*Server)

// WithPort sets the server port
func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithDelay adds a delay to all responses
func WithDelay(delay time.Duration) Option {
	return func(s *Server) {
		s.delay = delay
	}
}

// NewServer creates a new echo server
func NewServer(opts ...Option) *Server {
	s := &Server{
		router: NewRouter(),
		port:   3000,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router.Handle("*", "/echo", "echo", handleEcho)
	s.router.Handle("GET", "/status/{code}", "status", handleStatus)
	s.router.Handle("*", "/headers", "headers", handleHeaders)
	s.router.Handle("GET", "/redirect/{n}", "redirect", handleRedirect)
	return s
}

// Routes returns all registered routes
func (s *Server) Routes() []*Route {
	return s.router.Routes()
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	w.Header().Set("X-Request-Id", uuid.NewString())
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	route, params := s.router.Match(r.Method, r.URL.Path)
	if route == nil {
		rec.Header().Set("Content-Type", "text/plain; charset=utf-8")
		rec.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(rec, "Not Found")
	} else {
		route.Handler(rec, r, params)
	}

	logger.Info("%s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, time.Since(start))
}

// StartWithContext serves on the configured port until ctx is done.
func (s *Server) StartWithContext(ctx context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is done.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Notice("Echo server listening on http://%s", listener.Addr())
	for _, route := range s.router.Routes() {
		logger.Debug("  %s %s", route.Method, route.PathPattern)
	}

	if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func handleEcho(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Echo-Method", r.Method)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

func handleStatus(w http.ResponseWriter, _ *http.Request, params map[string]string) {
	code, err := strconv.Atoi(params["code"])
	if err != nil || code < 200 || code > 599 {
		http.Error(w, "invalid status code", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, http.StatusText(code))
}

func handleHeaders(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	names := make([]string, 0, len(r.Header))
	for k := range r.Header {
		names = append(names, k)
	}
	sort.Strings(names)

	headers := make(map[string]string, len(names))
	for _, k := range names {
		headers[strings.ToLower(k)] = strings.Join(r.Header[k], ", ")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(headers)
}

func handleRedirect(w http.ResponseWriter, r *http.Request, params map[string]string) {
	n, err := strconv.Atoi(params["n"])
	if err != nil || n < 0 {
		http.Error(w, "invalid redirect count", http.StatusBadRequest)
		return
	}

	target := "/echo"
	if n > 1 {
		target = fmt.Sprintf("/redirect/%d", n-1)
	}
	http.Redirect(w, r, target, http.StatusFound)
}
