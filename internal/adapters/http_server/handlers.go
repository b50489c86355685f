package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"restaurant_rater/internal/app"
	"restaurant_rater/internal/domain"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	Q *app.QueryService
	C *app.CommandService
}

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// MountHandlers registers the /v1 API. writeMW wraps every mutating route.
func (s *Server) MountHandlers(h *Handlers, writeMW ...func(http.Handler) http.Handler) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/restaurants", h.listRestaurants)
		r.Get("/restaurants/{id}", h.getRestaurant)
		r.Get("/restaurants/{id}/ratings", h.listRatings)
		r.Get("/restaurants/{id}/menu", h.listMenu)
		r.Get("/restaurants/{id}/locations", h.listLocations)
		r.Get("/raters/{id}", h.getRater)
		r.Get("/raters/{id}/ratings", h.listRaterRatings)
		r.Get("/menu-items/{id}/ratings", h.listItemRatings)

		r.Group(func(r chi.Router) {
			r.Use(writeMW...)
			r.Post("/raters", h.createRater)
			r.Post("/restaurants", h.createRestaurant)
			r.Post("/ratings", h.postRating)
			r.Post("/menu-items", h.addMenuItem)
			r.Post("/rating-items", h.postItemRating)
			r.Post("/locations", h.addLocation)
			r.Delete("/restaurants/{id}", h.deleteRestaurant)
			r.Delete("/raters/{id}", h.deleteRater)
			r.Delete("/menu-items/{id}", h.deleteMenuItem)
		})
	})
}

/********** response helpers **********/

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemDoc(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemDoc(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain and store errors onto problem documents.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	var ce *domain.ConstraintError
	switch {
	case errors.As(err, &ve):
		writeProblemDoc(w, problem{
			Type: "about:blank", Title: "Invalid Entity", Status: http.StatusBadRequest,
			Detail: ve.Error(), Errors: ve.Fields(),
		})
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.As(err, &ce):
		status := http.StatusUnprocessableEntity
		if ce.Kind == domain.KindDuplicate || ce.Kind == domain.KindReferenced {
			status = http.StatusConflict
		}
		writeProblem(w, status, "Constraint Violation",
			fmt.Sprintf("%s: %s constraint %q", ce.Entity, ce.Kind, ce.Constraint))
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write JSON body")
	}
}

/********** request helpers **********/

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return 0, false
	}
	return id, true
}

func pageQuery(w http.ResponseWriter, r *http.Request) (domain.PageQuery, bool) {
	pg := domain.PageQuery{Limit: domain.DefaultPageLimit}
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > domain.MaxPageLimit {
			writeProblem(w, http.StatusBadRequest, "Invalid limit",
				fmt.Sprintf("limit must be an integer between 1 and %d", domain.MaxPageLimit))
			return pg, false
		}
		pg.Limit = l
	}
	if offs := r.URL.Query().Get("offset"); offs != "" {
		o, err := strconv.Atoi(offs)
		if err != nil || o < 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid offset", "offset must be a non-negative integer")
			return pg, false
		}
		pg.Offset = o
	}
	return pg, true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		detail := err.Error()
		if errors.Is(err, io.EOF) {
			detail = "request body is empty"
		}
		writeProblem(w, http.StatusBadRequest, "Malformed Body", detail)
		return false
	}
	return true
}

type serializer interface{ Serialize() domain.Record }

func records[T serializer](items []T) domain.Page {
	out := domain.Page{Items: make([]domain.Record, 0, len(items))}
	for _, it := range items {
		out.Items = append(out.Items, it.Serialize())
	}
	return out
}

/********** reads **********/

func (h *Handlers) getRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	v, err := h.Q.GetRestaurant(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, v.Serialize())
}

func (h *Handlers) listRestaurants(w http.ResponseWriter, r *http.Request) {
	pg, ok := pageQuery(w, r)
	if !ok {
		return
	}
	out, err := h.Q.ListRestaurants(r.Context(), pg)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, records(out))
}

func (h *Handlers) listRatings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	pg, ok := pageQuery(w, r)
	if !ok {
		return
	}
	out, err := h.Q.ListRatings(r.Context(), id, pg)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, records(out))
}

func (h *Handlers) listMenu(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	pg, ok := pageQuery(w, r)
	if !ok {
		return
	}
	out, err := h.Q.ListMenu(r.Context(), id, pg)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, records(out))
}

func (h *Handlers) listLocations(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	pg, ok := pageQuery(w, r)
	if !ok {
		return
	}
	out, err := h.Q.ListLocations(r.Context(), id, pg)
	if err != nil {
		writeError(w, err)
		return
	}
	page := domain.Page{Items: make([]domain.Record, 0, len(out))}
	for _, l := range out {
		rec, err := l.Serialize()
		if err != nil {
			// hours are nullable in the store but required on the wire
			writeError(w, err)
			return
		}
		page.Items = append(page.Items, rec)
	}
	writeCached(w, r, page)
}

func (h *Handlers) getRater(w http.ResponseWriter, r *http.Request) {
	v, err := h.Q.GetRater(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, v.Serialize())
}

func (h *Handlers) listRaterRatings(w http.ResponseWriter, r *http.Request) {
	pg, ok := pageQuery(w, r)
	if !ok {
		return
	}
	out, err := h.Q.ListRaterRatings(r.Context(), chi.URLParam(r, "id"), pg)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, records(out))
}

func (h *Handlers) listItemRatings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	pg, ok := pageQuery(w, r)
	if !ok {
		return
	}
	out, err := h.Q.ListItemRatings(r.Context(), id, pg)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, records(out))
}

/********** writes **********/

type raterRequest struct {
	UserID     string `json:"userId"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	JoinDate   string `json:"join_date"`
	Type       string `json:"type"`
	Reputation int    `json:"reputation"`
}

func (h *Handlers) createRater(w http.ResponseWriter, r *http.Request) {
	var req raterRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.C.CreateRater(r.Context(),
		domain.NewRater(req.UserID, req.Email, req.Name, req.JoinDate, req.Type, req.Reputation))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/v1/raters/"+v.UserID)
	writeJSON(w, http.StatusCreated, v.Serialize())
}

type restaurantRequest struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	URL           string `json:"url"`
	PicURL        string `json:"pic_url"`
	OverallRating int    `json:"overallRating"`
}

func (h *Handlers) createRestaurant(w http.ResponseWriter, r *http.Request) {
	var req restaurantRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.C.CreateRestaurant(r.Context(),
		domain.NewRestaurant(req.Name, req.Type, req.URL, req.OverallRating, req.PicURL))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/v1/restaurants/%d", v.ID))
	writeJSON(w, http.StatusCreated, v.Serialize())
}

type ratingRequest struct {
	UserID       string `json:"userId"`
	PostDate     string `json:"postDate"`
	RestaurantID int64  `json:"restaurantId"`
	Price        int    `json:"price"`
	Food         int    `json:"food"`
	Mood         int    `json:"mood"`
	Staff        int    `json:"staff"`
	Comment      string `json:"comment"`
}

func (h *Handlers) postRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.C.PostRating(r.Context(), domain.NewRating(req.UserID, req.PostDate, req.RestaurantID,
		req.Price, req.Food, req.Mood, req.Staff, req.Comment))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v.Serialize())
}

type menuItemRequest struct {
	RestaurantID int64  `json:"restaurantId"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	Price        int    `json:"price"`
}

func (h *Handlers) addMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.C.AddMenuItem(r.Context(), domain.NewMenuItem(req.RestaurantID, req.Name, req.Type,
		req.Category, req.Description, req.Price))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v.Serialize())
}

type ratingItemRequest struct {
	UserID   string `json:"userId"`
	PostDate string `json:"postDate"`
	ItemID   int64  `json:"itemId"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

func (h *Handlers) postItemRating(w http.ResponseWriter, r *http.Request) {
	var req ratingItemRequest
	if !decode(w, r, &req) {
		return
	}
	posted, err := domain.ParseDateTime(req.PostDate)
	if err != nil {
		writeProblemDoc(w, problem{
			Type: "about:blank", Title: "Invalid Entity", Status: http.StatusBadRequest,
			Detail: err.Error(), Errors: map[string]string{"postDate": "must be an ISO-8601 datetime"},
		})
		return
	}
	v, err := h.C.PostItemRating(r.Context(), domain.NewRatingItem(req.UserID, posted, req.ItemID, req.Rating, req.Comment))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v.Serialize())
}

type locationRequest struct {
	ManagerName   string            `json:"manager_name"`
	PhoneNumber   string            `json:"phone_number"`
	StreetAddress string            `json:"street_address"`
	Open          *domain.TimeOfDay `json:"open"`
	Close         *domain.TimeOfDay `json:"close"`
	RestaurantID  int64             `json:"restaurantId"`
}

func (h *Handlers) addLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.C.AddLocation(r.Context(), domain.NewLocation(req.ManagerName, req.PhoneNumber,
		req.StreetAddress, req.Open, req.Close, req.RestaurantID))
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := v.Serialize()
	if err != nil {
		// stored without hours; echo the id so the client can still find it
		writeJSON(w, http.StatusCreated, map[string]any{"locationId": v.ID})
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handlers) deleteRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.C.DeleteRestaurant(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) deleteRater(w http.ResponseWriter, r *http.Request) {
	if err := h.C.DeleteRater(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.C.DeleteMenuItem(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
