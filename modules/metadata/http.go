package metadata

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/zachfi/nowplaying/pkg/station"
)

const listDescription = "Now playing metadata for internet radio stations. GET /stream-metadata/{station} returns the current track."

// Prefixes the routes are served under. The /api form matches serverless
// style deployments.
var Prefixes = []string{"/stream-metadata", "/api/stream-metadata"}

type listResponse struct {
	Stations    []string `json:"stations"`
	Description string   `json:"description"`
}

type errorResponse struct {
	Error             string   `json:"error"`
	Station           string   `json:"station,omitempty"`
	AvailableStations []string `json:"availableStations,omitempty"`
}

// RegisterRoutes adds the now playing routes to r.
func (m *Metadata) RegisterRoutes(r *mux.Router) {
	list := withRequestID(withCORS(http.HandlerFunc(m.handleList)))
	get := withRequestID(withCORS(http.HandlerFunc(m.handleStation)))

	for _, prefix := range Prefixes {
		r.Handle(prefix, list)
		r.Handle(prefix+"/", list)
		r.Handle(prefix+"/{station}", get)
	}
}

func (m *Metadata) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listResponse{
		Stations:    m.np.Stations(),
		Description: listDescription,
	})
}

func (m *Metadata) handleStation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["station"]
	reqID := w.Header().Get(requestIDHeader)

	resp, err := m.np.NowPlaying(r.Context(), id)
	if err != nil {
		var nf *station.NotFoundError
		if errors.As(err, &nf) {
			metricRequests.WithLabelValues("", outcomeNotFound).Inc()
			m.logger.Debug("unknown station requested", "station", id, "request_id", reqID)
			writeJSON(w, http.StatusNotFound, errorResponse{
				Error:             "Unknown station",
				AvailableStations: nf.Available,
			})
			return
		}

		metricRequests.WithLabelValues(id, outcomeUpstreamError).Inc()
		m.logger.Error("failed to fetch stream metadata", "station", id, "request_id", reqID, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   err.Error(),
			Station: id,
		})
		return
	}

	outcome := outcomeOK
	if resp.NowPlaying.IsFallback() {
		outcome = outcomeFallback
	}
	metricRequests.WithLabelValues(id, outcome).Inc()

	m.logger.Debug("now playing", "station", id, "request_id", reqID, "title", resp.NowPlaying.Title, "artist", resp.NowPlaying.Artist, "outcome", outcome)
	writeJSON(w, http.StatusOK, resp)
}

const requestIDHeader = "X-Request-Id"

// withRequestID echoes the caller's request id, or assigns a new one.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// withCORS opens the routes to any origin, answers preflight requests and
// restricts everything else to GET.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")

		switch r.Method {
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
			return
		case http.MethodGet, http.MethodHead:
		default:
			h.Set("Allow", "GET, OPTIONS")
			writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
