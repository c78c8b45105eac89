package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/couchcryptid/neo-impact-service/internal/domain"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := s.api.Feed(r.Context(), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		s.writeError(w, r, err, http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := s.api.Browse(r.Context(), q.Get("page"), q.Get("size"))
	if err != nil {
		s.writeError(w, r, err, http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHazardous(w http.ResponseWriter, r *http.Request) {
	res, err := s.api.Hazardous(r.Context())
	if err != nil {
		s.writeError(w, r, err, http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	res, err := s.api.Details(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err, http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	res, err := s.api.Dashboard(r.Context())
	if err != nil {
		s.writeError(w, r, err, http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSimulationRequest(w, r)
	if err != nil {
		s.writeError(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	res, err := s.api.Simulate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	res, err := s.api.History(r.Context(), r.URL.Query().Get("limit"))
	if err != nil {
		s.writeError(w, r, err, http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"count": len(res), "simulations": res})
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	res, err := s.api.Strategies()
	if err != nil {
		s.writeError(w, r, err, http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"strategies": res})
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	res, err := s.api.Presets()
	if err != nil {
		s.writeError(w, r, err, http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"presets": res})
}

// decodeSimulationRequest reads a JSON simulation body. Malformed JSON and
// wrongly typed fields are reported as validation errors.
func decodeSimulationRequest(w http.ResponseWriter, r *http.Request) (domain.SimulationRequest, error) {
	var req domain.SimulationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return req, &domain.ValidationError{Field: typeErr.Field, Reason: fmt.Sprintf("must be a %s", jsonKind(typeErr.Type.Kind().String()))}
		case errors.As(err, &maxErr):
			return req, &domain.ValidationError{Field: "body", Reason: fmt.Sprintf("must not exceed %d bytes", maxBodyBytes)}
		default:
			return req, &domain.ValidationError{Field: "body", Reason: "must be a JSON object"}
		}
	}
	return req, nil
}

func jsonKind(goKind string) string {
	switch goKind {
	case "float64", "ptr":
		return "number"
	default:
		return goKind
	}
}
