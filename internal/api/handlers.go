package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/gridpoint/internal/geo"
	"github.com/sells-group/gridpoint/internal/model"
	"github.com/sells-group/gridpoint/internal/store"
	"github.com/sells-group/gridpoint/pkg/gpc"
)

const maxBodyBytes = 1 << 20

type codeResponse struct {
	Code      string  `json:"code"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleEncode serves GET /v1/encode?lat=&lon=&formatted=.
func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, lon, ok := parseLatLon(w, q)
	if !ok {
		return
	}

	formatted := true
	if v := q.Get("formatted"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "formatted must be a boolean")
			return
		}
		formatted = b
	}

	code, err := gpc.EncodeWithFormat(lat, lon, formatted)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, codeResponse{Code: code, Latitude: lat, Longitude: lon})
}

// handleDecode serves GET /v1/decode/{code}; ?format=geojson returns a Feature.
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	raw, err := url.PathUnescape(chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed code")
		return
	}

	c, err := gpc.Decode(raw)
	if err != nil {
		fail(w, r, err)
		return
	}
	code := gpc.FormatCode(gpc.Normalize(raw))

	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, codeResponse{Code: code, Latitude: c.Latitude, Longitude: c.Longitude})
	case "geojson":
		writeJSONType(w, "application/geo+json", http.StatusOK, geo.Feature(code, c, nil))
	default:
		writeError(w, http.StatusBadRequest, "format must be json or geojson")
	}
}

// handleValidate serves GET /v1/validate?code= or ?lat=&lon=.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("code") {
		writeJSON(w, http.StatusOK, gpc.IsValidCode(q.Get("code")))
		return
	}
	if !q.Has("lat") && !q.Has("lon") {
		writeError(w, http.StatusBadRequest, "code or lat and lon are required")
		return
	}
	lat, lon, ok := parseLatLon(w, q)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, gpc.IsValidCoordinates(lat, lon))
}

func (s *Server) handleCreatePlace(w http.ResponseWriter, r *http.Request) {
	var in model.PlaceInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	place, err := in.Resolve()
	if err != nil {
		fail(w, r, err)
		return
	}
	created, err := s.store.CreatePlace(r.Context(), place)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListPlaces(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.PlaceFilter{Name: q.Get("name")}
	var err error
	if filter.Limit, err = intParam(q, "limit"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.Offset, err = intParam(q, "offset"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	places, err := s.store.ListPlaces(r.Context(), filter)
	if err != nil {
		fail(w, r, err)
		return
	}
	if places == nil {
		places = []model.Place{}
	}
	writeJSON(w, http.StatusOK, places)
}

func (s *Server) handleGetPlace(w http.ResponseWriter, r *http.Request) {
	place, err := s.store.GetPlace(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, place)
}

func (s *Server) handleGetPlaceByCode(w http.ResponseWriter, r *http.Request) {
	raw, err := url.PathUnescape(chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed code")
		return
	}
	if v := gpc.IsValidCode(raw); !v.Valid {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid code", Reason: v.Reason})
		return
	}
	place, err := s.store.GetPlaceByCode(r.Context(), raw)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, place)
}

func (s *Server) handleDeletePlace(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeletePlace(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseLatLon(w http.ResponseWriter, q url.Values) (lat, lon float64, ok bool) {
	if q.Get("lat") == "" || q.Get("lon") == "" {
		writeError(w, http.StatusBadRequest, "lat and lon are required")
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lat must be a number")
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lon must be a number")
		return 0, 0, false
	}
	return lat, lon, true
}

func intParam(q url.Values, name string) (int, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, eris.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}
