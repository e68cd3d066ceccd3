// internal/handler/movie_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"vecinosml-pc3/internal/service"

	"github.com/go-chi/chi/v5"
)

type MovieHandler struct {
	svc *service.MovieService
}

func NewMovieHandler(s *service.MovieService) *MovieHandler {
	return &MovieHandler{svc: s}
}

// @Summary Obtener película por id
// @Tags movies
// @Produce json
// @Param id path int true "movieId"
// @Router /movies/{id} [get]
func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	movieID, _ := strconv.Atoi(chi.URLParam(r, "id"))

	m, err := h.svc.GetByID(r.Context(), movieID)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	if m == nil {
		http.Error(w, "movie not found", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(m)
}

// @Summary Buscar películas
// @Tags movies
// @Produce json
// @Param q query string false "texto en el título"
// @Param genre query string false "género"
// @Param yearFrom query int false "año desde"
// @Param yearTo query int false "año hasta"
// @Router /movies/search [get]
func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	q := r.URL.Query().Get("q")
	genre := r.URL.Query().Get("genre")
	yearFrom, _ := strconv.Atoi(r.URL.Query().Get("yearFrom"))
	yearTo, _ := strconv.Atoi(r.URL.Query().Get("yearTo"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, err := h.svc.Search(r.Context(), q, genre, yearFrom, yearTo, limit, offset)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(list)
}
