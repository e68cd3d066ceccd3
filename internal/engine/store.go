package engine

import (
	"errors"
	"sort"
)

// Defaults del análisis (escala de ratings 1..10).
const (
	DefaultLikeThreshold    = 7.0
	DefaultMinSeen          = 2
	DefaultOverlapThreshold = 2
)

// ErrUnknownUser se devuelve cuando se consulta un usuario sin ratings.
var ErrUnknownUser = errors.New("usuario sin ratings registrados")

// RatingStore guarda los ratings como filas dispersas por usuario.
// Una matriz densa usuario×película no entra en memoria con los tamaños
// reales de MovieLens; cada usuario lleva solo las películas que calificó.
type RatingStore struct {
	ratings map[int]map[int]float64 // userId -> movieId -> rating
}

func NewRatingStore() *RatingStore {
	return &RatingStore{ratings: make(map[int]map[int]float64)}
}

// AddObservation registra una observación cruda del feed. Si ya había un
// rating para (usuario, película) se queda el máximo observado: esa es la
// regla de deduplicación del dataset, no un bug.
func (s *RatingStore) AddObservation(userID, movieID int, rating float64) {
	row, ok := s.ratings[userID]
	if !ok {
		row = make(map[int]float64)
		s.ratings[userID] = row
	}
	if prev, ok := row[movieID]; !ok || rating > prev {
		row[movieID] = rating
	}
}

// Users devuelve todos los usuarios con al menos un rating, ordenados.
func (s *RatingStore) Users() []int {
	out := make([]int, 0, len(s.ratings))
	for u := range s.ratings {
		out = append(out, u)
	}
	sort.Ints(out)
	return out
}

func (s *RatingStore) NumUsers() int {
	return len(s.ratings)
}

// Rating devuelve el rating de (usuario, película) si existe.
func (s *RatingStore) Rating(userID, movieID int) (float64, bool) {
	r, ok := s.ratings[userID][movieID]
	return r, ok
}

// SeenCount es |seen(user)| sin materializar el set.
func (s *RatingStore) SeenCount(userID int) int {
	return len(s.ratings[userID])
}

// Seen devuelve el conjunto de películas que el usuario calificó.
func (s *RatingStore) Seen(userID int) (map[int]struct{}, error) {
	row, ok := s.ratings[userID]
	if !ok {
		return nil, ErrUnknownUser
	}
	out := make(map[int]struct{}, len(row))
	for m := range row {
		out[m] = struct{}{}
	}
	return out, nil
}

// Liked devuelve el subconjunto de Seen con rating >= minRating.
// Un set vacío no es error: el usuario simplemente no tiene favoritas.
func (s *RatingStore) Liked(userID int, minRating float64) (map[int]struct{}, error) {
	row, ok := s.ratings[userID]
	if !ok {
		return nil, ErrUnknownUser
	}
	out := make(map[int]struct{})
	for m, r := range row {
		if r >= minRating {
			out[m] = struct{}{}
		}
	}
	return out, nil
}

// Eligible devuelve los usuarios con más de lowerBound películas vistas
// (estrictamente mayor), ordenados. Los que quedan por debajo no entran
// al cálculo de distancias y tampoco pueden aparecer como vecinos de
// nadie: es un trade-off explícito, no un descuido.
func (s *RatingStore) Eligible(lowerBound int) []int {
	out := make([]int, 0, len(s.ratings))
	for u, row := range s.ratings {
		if len(row) > lowerBound {
			out = append(out, u)
		}
	}
	sort.Ints(out)
	return out
}
