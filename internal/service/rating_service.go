package service

import (
	"context"
	"fmt"

	"vecinosml-pc3/internal/models"
	"vecinosml-pc3/internal/repository"
)

type RatingService struct {
	ratings *repository.RatingRepository
	movies  *repository.MovieRepository
}

func NewRatingService(r *repository.RatingRepository, m *repository.MovieRepository) *RatingService {
	return &RatingService{
		ratings: r,
		movies:  m,
	}
}

// AddOrUpdate registra el rating de un usuario para una película.
// La escala es 1..10; el rating nuevo entra a la tabla recién en el
// próximo rebuild del snapshot (no hay updates incrementales).
func (s *RatingService) AddOrUpdate(ctx context.Context, userID, movieID int, rating float64) error {
	if rating < 1 || rating > 10 {
		return fmt.Errorf("rating %v fuera de la escala 1..10", rating)
	}

	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return err
	}
	if movie == nil {
		return fmt.Errorf("movie %d no encontrada", movieID)
	}

	return s.ratings.UpsertRating(ctx, userID, movieID, rating)
}

func (s *RatingService) GetByUser(ctx context.Context, userID, limit, offset int) ([]models.RatingDoc, error) {
	return s.ratings.GetByUser(ctx, userID, limit, offset)
}
