package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/skyfolio/ambience/internal/domain"
	"github.com/skyfolio/ambience/internal/engine"
)

type createSessionRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

type overridesRequest struct {
	Hour    *float64 `json:"hour"`
	Weather *string  `json:"weather"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	loc, err := parseLocation(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	info := s.scenes.CreateSession(loc)
	writeJSON(w, http.StatusCreated, info)
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := s.scenes.CloseSession(r.PathValue("id")); err != nil {
		writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	frame, err := s.scenes.Snapshot(r.PathValue("id"))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, frame)
}

func (s *Server) handleOverrides(w http.ResponseWriter, r *http.Request) {
	var req overridesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ov, err := parseOverrides(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	frame, err := s.scenes.SetOverrides(r.PathValue("id"), ov)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, frame)
}

func (s *Server) handleGesture(w http.ResponseWriter, r *http.Request) {
	frame, err := s.scenes.Gesture(r.PathValue("id"))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, frame)
}

func parseLocation(req createSessionRequest) (*domain.Location, error) {
	if req.Lat == nil && req.Lon == nil {
		return nil, nil
	}
	if req.Lat == nil || req.Lon == nil {
		return nil, errors.New("lat and lon must be provided together")
	}
	if *req.Lat < -90 || *req.Lat > 90 {
		return nil, fmt.Errorf("lat %v out of range [-90, 90]", *req.Lat)
	}
	if *req.Lon < -180 || *req.Lon > 180 {
		return nil, fmt.Errorf("lon %v out of range [-180, 180]", *req.Lon)
	}
	return &domain.Location{Lat: *req.Lat, Lon: *req.Lon}, nil
}

func parseOverrides(req overridesRequest) (domain.Overrides, error) {
	var ov domain.Overrides

	if req.Hour != nil {
		q, ok := domain.QuantizeHour(*req.Hour)
		if !ok {
			return ov, fmt.Errorf("hour %v out of range [0, 24)", *req.Hour)
		}
		ov.Hour = &q
	}

	if req.Weather != nil && *req.Weather != "" && *req.Weather != "auto" {
		pick, err := domain.ParsePick(*req.Weather)
		if err != nil {
			return ov, err
		}
		ov.Weather = &pick
	}

	return ov, nil
}

func writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, engine.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
