package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/export"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// Server handles web requests for the raytracer
type Server struct {
	port int
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene  string // Scene preset name
	Width  int    // Image width, height follows the scene aspect ratio
	Format string // Output format extension
}

// Handler returns the HTTP routes served by Start
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists the available scene presets
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(scene.List())
}

// handleRender renders the requested scene and returns the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, http.StatusMethodNotAllowed, "Only GET is supported")
		return
	}

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := scene.New(req.Scene, req.Width)
	if err != nil {
		s.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	startTime := time.Now()
	img, err := sceneObj.NewRaytracer().Render(r.Context())
	if err != nil {
		// Client went away or the size was rejected
		log.Printf("Render of %s failed: %v", req.Scene, err)
		s.sendError(w, http.StatusServiceUnavailable, "Render failed")
		return
	}

	var buf bytes.Buffer
	if err := export.Encode(&buf, img, req.Format); err != nil {
		s.sendError(w, http.StatusInternalServerError, "Failed to encode image")
		return
	}

	log.Printf("Rendered %s at %dx%d in %v", req.Scene, sceneObj.Width, sceneObj.Height, time.Since(startTime))

	w.Header().Set("Content-Type", export.ContentType(req.Format))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// parseRenderRequest parses and validates the query parameters of a render request
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{
		Scene:  "normal-sphere",
		Format: "png",
	}

	if sceneName := r.URL.Query().Get("scene"); sceneName != "" {
		req.Scene = sceneName
	}

	if format := r.URL.Query().Get("format"); format != "" {
		if export.ContentType(format) == "application/octet-stream" {
			return nil, errors.New("unsupported format: " + format)
		}
		req.Format = format
	}

	var err error
	if req.Width, err = parseIntParam(r.URL.Query(), "width", scene.DefaultWidth, 16, 2000); err != nil {
		return nil, err
	}

	return req, nil
}

// parseIntParam parses an integer query parameter with default and bounds
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// sendError writes a JSON error body with the given status
func (s *Server) sendError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
