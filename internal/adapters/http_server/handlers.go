package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"stayhub/internal/app"
	"stayhub/internal/domain"
)

type Handlers struct {
	Q *app.QueryService
	L *app.LifecycleService
	A *app.AuthService
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte("ok"))
	})

	s.mux.Route("/api", func(r chi.Router) {
		r.Route("/hotels", func(r chi.Router) {
			r.With(h.optionalAuth).Get("/", h.listHotels)
			r.Get("/nearby", h.nearbyHotels)
			r.Get("/{id}", h.getHotel)

			r.Group(func(r chi.Router) {
				r.Use(h.requireAuth)
				r.Post("/", h.createHotel)
				r.Put("/{id}", h.updateHotel)
				r.Post("/{id}/audit", h.auditHotel)
				r.Post("/{id}/status", h.setHotelStatus)
				r.Delete("/{id}", h.deleteHotel)
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.With(RateLimit(rate.Limit(1), 5)).Post("/login", h.login)

			r.Group(func(r chi.Router) {
				r.Use(h.requireAuth)
				r.Get("/me", h.me)
				r.Post("/change-password", h.changePassword)
				r.Get("/users", h.listUsers)
				r.Put("/users/{id}", h.updateUser)
				r.Delete("/users/{id}", h.deleteUser)
			})
		})
	})
}

// parseHotelQuery builds a HotelQuery from the query string. Parsing is
// permissive: unparseable numbers behave as if absent, the engine
// normalizes page bounds.
func parseHotelQuery(r *http.Request) domain.HotelQuery {
	qs := r.URL.Query()
	q := domain.HotelQuery{
		Keyword: qs.Get("keyword"),
		City:    qs.Get("city"),
		SortBy:  qs.Get("sortBy"),
		Order:   qs.Get("order"),
	}

	if v := qs.Get("minPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			q.MinPrice = &f
		}
	}
	if v := qs.Get("maxPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			q.MaxPrice = &f
		}
	}

	// tags arrives either comma-joined or as a repeated param.
	if vals := qs["tags"]; len(vals) == 1 {
		for _, t := range strings.Split(vals[0], ",") {
			if t = strings.TrimSpace(t); t != "" {
				q.Tags = append(q.Tags, t)
			}
		}
	} else if len(vals) > 1 {
		q.Tags = vals
	}

	if st := domain.HotelStatus(qs.Get("status")); st.Valid() {
		q.Status = st
	}
	q.IncludeAll = qs.Get("includeAll") == "true"
	q.CreatedBy = qs.Get("createdBy")

	q.Page, _ = strconv.Atoi(qs.Get("page"))
	q.PageSize, _ = strconv.Atoi(qs.Get("pageSize"))

	// Location requires both coordinates; half a point is no point.
	if latS, lngS := qs.Get("lat"), qs.Get("lng"); latS != "" && lngS != "" {
		lat, errLat := strconv.ParseFloat(latS, 64)
		lng, errLng := strconv.ParseFloat(lngS, 64)
		if errLat == nil && errLng == nil {
			loc := &domain.GeoQuery{Lat: lat, Lng: lng}
			if radS := qs.Get("radius"); radS != "" {
				if rad, err := strconv.ParseFloat(radS, 64); err == nil {
					loc.Radius = rad
				}
			}
			q.Location = loc
		}
	}
	return q
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	q := parseHotelQuery(r)

	// Hotel admins only ever see their own listings in management views.
	if actor, ok := ActorFrom(r.Context()); ok && actor.Role == domain.RoleHotelAdmin {
		q.CreatedBy = actor.ID
	}

	page, err := h.Q.List(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, page)
}

func (h *Handlers) nearbyHotels(w http.ResponseWriter, r *http.Request) {
	q := parseHotelQuery(r)
	if q.Location == nil {
		writeErrorStatus(w, http.StatusBadRequest, "VALIDATION_ERROR", "lat and lng are required")
		return
	}
	if q.Location.Radius == 0 {
		q.Location.Radius = 10
	}
	q.SortBy = "distance"

	page, err := h.Q.List(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, page)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.Q.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	etag, body := calcETagAndBody(envelope{Success: true, Data: hotel})
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getHotel body")
	}
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())

	var in app.CreateHotelInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body")
		return
	}
	hotel, err := h.L.Create(r.Context(), actor, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, hotel)
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())

	var in app.UpdateHotelInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body")
		return
	}
	hotel, err := h.L.Update(r.Context(), actor, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, hotel)
}

func (h *Handlers) auditHotel(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())

	var body struct {
		Action string `json:"action"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body")
		return
	}
	hotel, err := h.L.Audit(r.Context(), actor, chi.URLParam(r, "id"), app.AuditAction(body.Action), body.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	msg := "hotel approved"
	if hotel.Status == domain.StatusRejected {
		msg = "hotel rejected"
	}
	writeMessage(w, hotel, msg)
}

func (h *Handlers) setHotelStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body")
		return
	}
	hotel, err := h.L.SetStatus(r.Context(), actor, chi.URLParam(r, "id"), body.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, hotel, fmt.Sprintf("hotel %s", body.Status))
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFrom(r.Context())

	if err := h.L.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, nil, "hotel deleted")
}
