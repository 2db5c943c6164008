package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/jcdickinson/noogle/internal/docs"
	"github.com/jcdickinson/noogle/internal/page"
	"github.com/jcdickinson/noogle/internal/rpc"
	"github.com/jcdickinson/noogle/internal/theme"
	"golang.org/x/sync/singleflight"
)

type Server struct {
	lib        *Library
	addr       string
	theme      theme.Variant
	httpServer *http.Server
	listener   net.Listener

	renderGroup singleflight.Group
}

func New(lib *Library, addr string, variant theme.Variant) *Server {
	return &Server{lib: lib, addr: addr, theme: variant}
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /f/{path...}", s.handlePage)
	mux.HandleFunc("GET /api/doc", s.handleGetDoc)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /theme.css", s.handleThemeCSS)
	mux.HandleFunc("GET /page.css", s.handlePageCSS)
	return mux
}

func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:     s.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	log.Printf("server: listening on %s", listener.Addr())

	if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	var errs []error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Printf("server: shutdown error: %v", err)
			errs = append(errs, err)
		}
	}
	if s.listener != nil {
		if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			log.Printf("server: listener close error: %v", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type renderedPage struct {
	html  []byte
	found bool
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	raw := strings.Trim(r.PathValue("path"), "/")
	var path []string
	if raw != "" {
		path = strings.Split(raw, "/")
	}

	renderer := s.lib.Renderer()
	// Singleflight: concurrent requests for one page share a single render.
	v, err, _ := s.renderGroup.Do(raw, func() (interface{}, error) {
		var buf bytes.Buffer
		found, err := renderer.Render(&buf, path)
		if err != nil {
			return nil, err
		}
		return renderedPage{html: buf.Bytes(), found: found}, nil
	})
	if err != nil {
		log.Printf("server: rendering %s: %v", raw, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	p := v.(renderedPage)
	status := http.StatusOK
	if !p.found {
		status = http.StatusNotFound
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(p.html); err != nil {
		log.Printf("server: writing page %s: %v", raw, err)
	}
}

func (s *Server) handleGetDoc(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("path")
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing path")
		return
	}

	resp, err := s.lib.GetDoc(r.Context(), key)
	if errors.Is(err, docs.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := rpc.SearchRequest{
		Query: q.Get("q"),
		From:  q.Get("from"),
		To:    q.Get("to"),
	}
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", l))
			return
		}
		req.Limit = n
	}

	resp, err := s.lib.Search(r.Context(), req)
	if errors.Is(err, ErrNoIndex) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if resp.Results == nil {
		resp.Results = []rpc.SearchResult{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.lib.Status())
}

func (s *Server) handleThemeCSS(w http.ResponseWriter, r *http.Request) {
	css, err := theme.CSS(s.theme)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeCSS(w, "theme.css", css)
}

func (s *Server) handlePageCSS(w http.ResponseWriter, r *http.Request) {
	writeCSS(w, "page.css", page.Stylesheet)
}

func writeCSS(w http.ResponseWriter, name, css string) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	if _, err := io.WriteString(w, css); err != nil {
		log.Printf("server: writing %s: %v", name, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
