package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/amaumene/testenv/pkg/config"
	"github.com/amaumene/testenv/pkg/services"
)

const version = "1.0.0"

// Handler serves the resolved configuration over HTTP
type Handler struct {
	cfg    *config.Config
	runs   *services.RunService
	apiKey string
	mux    *http.ServeMux
}

// NewHandler builds the handler. runs may be nil, in which case the history
// endpoint reports 503.
func NewHandler(cfg *config.Config, runs *services.RunService, apiKey string) *Handler {
	h := &Handler{
		cfg:    cfg,
		runs:   runs,
		apiKey: apiKey,
		mux:    http.NewServeMux(),
	}
	h.SetupRoutes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) SetupRoutes() {
	h.mux.HandleFunc("/health", h.handleHealth)
	h.mux.HandleFunc("/api/config", h.authMiddleware(h.handleConfig))
	h.mux.HandleFunc("/api/capabilities", h.authMiddleware(h.handleCapabilities))
	h.mux.HandleFunc("/api/endpoints", h.authMiddleware(h.handleEndpoints))
	h.mux.HandleFunc("/api/runs", h.authMiddleware(h.handleRuns))
	h.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		h.writeErrorResponse(w, http.StatusNotFound, "Not found", "The requested endpoint does not exist")
	})
}

// ResponseError represents an error response
type ResponseError struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ResponseSuccess represents a success response
type ResponseSuccess struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// EndpointsResponse lists the test pages the device under test loads
type EndpointsResponse struct {
	Test         string `json:"test"`
	GuineaPig    string `json:"guinea_pig"`
	Chrome       string `json:"chrome"`
	ChromeGuinea string `json:"chrome_guinea_pig"`
	Phishing     string `json:"phishing"`
	LocalIP      string `json:"local_ip,omitempty"`
}

func (h *Handler) writeJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Error("Failed to encode JSON response")
	}
}

func (h *Handler) writeErrorResponse(w http.ResponseWriter, status int, message, details string) {
	response := ResponseError{
		Error:   message,
		Message: details,
	}
	h.writeJSONResponse(w, status, response)
}

func (h *Handler) writeSuccessResponse(w http.ResponseWriter, message string, data interface{}) {
	response := ResponseSuccess{
		Message: message,
		Data:    data,
	}
	h.writeJSONResponse(w, http.StatusOK, response)
}

func (h *Handler) requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", "Only GET requests are allowed")
		return false
	}
	return true
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !h.requireGet(w, r) {
		return
	}

	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   version,
		"device":    h.cfg.Device.String(),
	}

	h.writeSuccessResponse(w, "Service is healthy", health)
}

// handleConfig returns the full configuration with credentials redacted
func (h *Handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !h.requireGet(w, r) {
		return
	}
	h.writeSuccessResponse(w, "Configuration retrieved successfully", h.cfg.Sanitized())
}

// handleCapabilities returns the capabilities unwrapped so clients can pass
// the body straight to the session-creation API
func (h *Handler) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	if !h.requireGet(w, r) {
		return
	}
	h.writeJSONResponse(w, http.StatusOK, h.cfg.Sanitized().Caps)
}

func (h *Handler) handleEndpoints(w http.ResponseWriter, r *http.Request) {
	if !h.requireGet(w, r) {
		return
	}

	data := EndpointsResponse{
		Test:         h.cfg.TestEndpoint,
		GuineaPig:    h.cfg.GuineaTestEndpoint,
		Chrome:       h.cfg.ChromeTestEndpoint,
		ChromeGuinea: h.cfg.ChromeGuineaTestEndpoint,
		Phishing:     h.cfg.PhishingEndpoint,
		LocalIP:      h.cfg.LocalIP,
	}
	h.writeSuccessResponse(w, "Endpoints retrieved successfully", data)
}

func (h *Handler) handleRuns(w http.ResponseWriter, r *http.Request) {
	if !h.requireGet(w, r) {
		return
	}
	if h.runs == nil {
		h.writeErrorResponse(w, http.StatusServiceUnavailable, "History disabled", "No run history database is configured")
		return
	}

	limit, err := validateLimit(r.URL.Query().Get("limit"))
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid parameter", err.Error())
		return
	}
	device, err := validateDevice(r.URL.Query().Get("device"))
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid parameter", err.Error())
		return
	}

	runs, err := h.runs.History(services.HistoryFilter{
		Device:   device,
		Platform: r.URL.Query().Get("platform"),
		Limit:    limit,
	})
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to get runs", err.Error())
		return
	}

	data := map[string]interface{}{
		"count": len(runs),
		"runs":  runs,
	}
	h.writeSuccessResponse(w, "Runs retrieved successfully", data)
}
