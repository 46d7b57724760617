/*
Package server exposes the battery catalog as a read-only JSON API.
*/
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/shanehull/batterydb/internal/catalog"
	"github.com/shanehull/batterydb/internal/metrics"
	"github.com/shanehull/batterydb/internal/ranking"
	"github.com/shanehull/batterydb/internal/types"
)

// Catalog is the read side of the catalog store.
type Catalog interface {
	AllBatteries(ctx context.Context) ([]types.Battery, error)
	BatteryBySlug(ctx context.Context, slug string) (types.Battery, error)
	AllBrands(ctx context.Context) ([]types.Brand, error)
	BrandBySlug(ctx context.Context, slug string) (types.Brand, error)
	BatteriesByBrand(ctx context.Context, brandSlug string) ([]types.Battery, error)
}

type Server struct {
	catalog Catalog
	logger  *zap.Logger
}

func New(catalog Catalog, logger *zap.Logger) *Server {
	return &Server{catalog: catalog, logger: logger}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", metrics.Handler())

	r.Get("/batteries", s.listBatteries)
	r.Get("/batteries/{slug}", s.getBattery)
	r.Get("/brands", s.listBrands)
	r.Get("/brands/{slug}", s.getBrand)
	return r
}

// observe records per-route metrics and a debug access log line.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		elapsed := time.Since(start)
		metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		s.logger.Debug("Handled request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listBatteries serves the catalog in query order (largest usable capacity
// first) unless sort or dir asks for a ranking.
func (s *Server) listBatteries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	key, dir := ranking.DefaultKey, ranking.DefaultDirection
	resort := q.Get("sort") != "" || q.Get("dir") != ""

	var err error
	if v := q.Get("sort"); v != "" {
		if key, err = ranking.ParseKey(v); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if v := q.Get("dir"); v != "" {
		if dir, err = ranking.ParseDirection(v); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	batteries, err := s.catalog.AllBatteries(r.Context())
	if err != nil {
		s.internalError(w, "list batteries", err)
		return
	}
	if resort {
		batteries = ranking.Sort(batteries, key, dir)
	}

	writeJSON(w, http.StatusOK, BatteryListResponse{
		Batteries: toBatteryResponses(batteries),
		Total:     len(batteries),
		Sort:      key,
		Dir:       dir,
	})
}

func (s *Server) getBattery(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	b, err := s.catalog.BatteryBySlug(r.Context(), slug)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "battery not found")
		return
	}
	if err != nil {
		s.internalError(w, "get battery", err)
		return
	}

	writeJSON(w, http.StatusOK, toBatteryResponse(b))
}

func (s *Server) listBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := s.catalog.AllBrands(r.Context())
	if err != nil {
		s.internalError(w, "list brands", err)
		return
	}
	if brands == nil {
		brands = []types.Brand{}
	}
	writeJSON(w, http.StatusOK, BrandListResponse{Brands: brands})
}

func (s *Server) getBrand(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	brand, err := s.catalog.BrandBySlug(r.Context(), slug)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "brand not found")
		return
	}
	if err != nil {
		s.internalError(w, "get brand", err)
		return
	}

	batteries, err := s.catalog.BatteriesByBrand(r.Context(), slug)
	if err != nil {
		s.internalError(w, "list brand batteries", err)
		return
	}

	writeJSON(w, http.StatusOK, BrandResponse{
		Brand:     brand,
		Batteries: toBatteryResponses(batteries),
	})
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error("Catalog query failed", zap.String("op", op), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "database error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
