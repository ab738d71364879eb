// Package proxy serves a small caching HTTP facade over the CDSS
// client: hot station and structure lookups are answered from the
// cache instead of re-walking upstream pagination.
package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/anguswg-ucsb/cdssgo/cdss"
	"github.com/anguswg-ucsb/cdssgo/internal/cache"
	"github.com/anguswg-ucsb/cdssgo/internal/cache/keys"
	"github.com/anguswg-ucsb/cdssgo/internal/observability"
)

type Server struct {
	client  *cdss.Client
	store   cache.Store
	ttl     cache.TTL
	cellRes int
	log     zerolog.Logger
}

func New(client *cdss.Client, store cache.Store, ttl cache.TTL, cellRes int, log zerolog.Logger) *Server {
	return &Server{
		client:  client,
		store:   store,
		ttl:     ttl,
		cellRes: cellRes,
		log:     log,
	}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(Recover(s.log))
	r.Use(Logging(s.log))
	r.Use(CORS())

	r.Get("/healthz", s.handleHealthz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/v2", func(r chi.Router) {
		r.Get("/telemetry/stations", s.handleTelemetryStations)
		r.Get("/surfacewater/stations", s.handleSurfaceWaterStations)
		r.Get("/climate/stations", s.handleClimateStations)
		r.Get("/structures", s.handleStructures)
		r.Get("/reference/{table}", s.handleReferenceTable)
	})
	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// paramError marks a malformed request parameter; it maps to 400.
type paramError string

func (e paramError) Error() string { return string(e) }

// spatial reads the optional lat/lng/radius triple. The AOI is nil
// unless both coordinates are present.
func spatial(q url.Values) (aoi cdss.AOI, radius *int, lat, lng float64, err error) {
	latS, lngS := q.Get("lat"), q.Get("lng")
	if latS == "" && lngS == "" {
		return nil, nil, 0, 0, nil
	}
	if latS == "" || lngS == "" {
		return nil, nil, 0, 0, paramError("lat and lng must be given together")
	}
	lat, err = strconv.ParseFloat(latS, 64)
	if err != nil {
		return nil, nil, 0, 0, paramError("lat must be a number")
	}
	lng, err = strconv.ParseFloat(lngS, 64)
	if err != nil {
		return nil, nil, 0, 0, paramError("lng must be a number")
	}
	if rs := q.Get("radius"); rs != "" {
		n, convErr := strconv.Atoi(rs)
		if convErr != nil {
			return nil, nil, 0, 0, paramError("radius must be an integer")
		}
		radius = cdss.Int(n)
	}
	return cdss.Point{Lng: lng, Lat: lat}, radius, lat, lng, nil
}

func intParam(q url.Values, name string) (int, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, paramError(name + " must be an integer")
	}
	return n, nil
}

func listParam(q url.Values, name string) []string {
	v := q.Get(name)
	if v == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *Server) handleTelemetryStations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	aoi, radius, lat, lng, err := spatial(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	division, err := intParam(q, "division")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	waterDistrict, err := intParam(q, "waterDistrict")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	req := cdss.TelemetryStationsRequest{
		AOI:           aoi,
		Radius:        radius,
		Abbrevs:       listParam(q, "abbrev"),
		County:        q.Get("county"),
		Division:      division,
		GNISID:        q.Get("gnisId"),
		USGSID:        q.Get("usgsId"),
		WaterDistrict: waterDistrict,
		WDID:          q.Get("wdid"),
	}

	s.serveCached(w, r, "telemetrystations/telemetrystation", s.cell(aoi, lat, lng), func(ctx context.Context) (*cdss.Frame, error) {
		return s.client.GetTelemetryStations(ctx, req)
	})
}

func (s *Server) handleSurfaceWaterStations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	aoi, radius, lat, lng, err := spatial(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	division, err := intParam(q, "division")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	waterDistrict, err := intParam(q, "waterDistrict")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	req := cdss.SurfaceWaterStationsRequest{
		AOI:           aoi,
		Radius:        radius,
		Abbrevs:       listParam(q, "abbrev"),
		County:        q.Get("county"),
		Division:      division,
		StationName:   q.Get("stationName"),
		USGSSiteID:    q.Get("usgsSiteId"),
		WaterDistrict: waterDistrict,
	}

	s.serveCached(w, r, "surfacewater/surfacewaterstations", s.cell(aoi, lat, lng), func(ctx context.Context) (*cdss.Frame, error) {
		return s.client.GetSurfaceWaterStations(ctx, req)
	})
}

func (s *Server) handleClimateStations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	aoi, radius, lat, lng, err := spatial(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	division, err := intParam(q, "division")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	waterDistrict, err := intParam(q, "waterDistrict")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	req := cdss.ClimateStationsRequest{
		AOI:           aoi,
		Radius:        radius,
		County:        q.Get("county"),
		Division:      division,
		StationName:   q.Get("stationName"),
		SiteID:        q.Get("siteId"),
		WaterDistrict: waterDistrict,
	}

	s.serveCached(w, r, "climatedata/climatestations", s.cell(aoi, lat, lng), func(ctx context.Context) (*cdss.Frame, error) {
		return s.client.GetClimateStations(ctx, req)
	})
}

func (s *Server) handleStructures(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	aoi, radius, lat, lng, err := spatial(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	division, err := intParam(q, "division")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	waterDistrict, err := intParam(q, "waterDistrict")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	req := cdss.StructuresRequest{
		AOI:           aoi,
		Radius:        radius,
		County:        q.Get("county"),
		Division:      division,
		GNISID:        q.Get("gnisId"),
		WaterDistrict: waterDistrict,
		WDIDs:         listParam(q, "wdid"),
	}

	s.serveCached(w, r, "structures", s.cell(aoi, lat, lng), func(ctx context.Context) (*cdss.Frame, error) {
		return s.client.GetStructures(ctx, req)
	})
}

func (s *Server) handleReferenceTable(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	s.serveCached(w, r, "referencetables/"+strings.ToLower(table), "", func(ctx context.Context) (*cdss.Frame, error) {
		return s.client.GetReferenceTable(ctx, table)
	})
}

func (s *Server) cell(aoi cdss.AOI, lat, lng float64) string {
	if aoi == nil {
		return ""
	}
	return keys.Cell(lat, lng, s.cellRes)
}

// serveCached answers from the cache when possible, otherwise runs the
// upstream query and stores the rendered rows.
func (s *Server) serveCached(w http.ResponseWriter, r *http.Request, resource, cell string, fetch func(ctx context.Context) (*cdss.Frame, error)) {
	// url.Values.Encode sorts by key, so equivalent queries share a key.
	key := keys.Key(resource, cell, r.URL.Query().Encode())

	if body, ok, err := s.store.Get(r.Context(), key); err == nil && ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "hit")
		_, _ = w.Write(body)
		return
	} else if err != nil {
		// A broken cache degrades to pass-through.
		s.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	start := time.Now()
	frame, err := fetch(r.Context())
	observability.ObserveUpstream(resource, time.Since(start).Seconds())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := json.Marshal(frame)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.store.Set(r.Context(), key, body, s.ttl.For(resource)); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "miss")
	_, _ = w.Write(body)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	var perr paramError
	var verr *cdss.ValidationError
	var crs *cdss.CRSError
	var aerr *cdss.AOIError
	var qerr *cdss.QueryError
	switch {
	case errors.As(err, &perr), errors.As(err, &verr), errors.As(err, &crs), errors.As(err, &aerr):
		status = http.StatusBadRequest
	case errors.Is(err, cdss.ErrTooManyPages), errors.As(err, &qerr):
		status = http.StatusBadGateway
	case strings.Contains(err.Error(), "invalid table name"):
		status = http.StatusNotFound
	}

	s.log.Error().Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request failed")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
