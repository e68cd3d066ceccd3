// internal/service/movie_service.go
package service

import (
	"context"

	"vecinosml-pc3/internal/models"
	"vecinosml-pc3/internal/repository"
)

type MovieService struct {
	movies *repository.MovieRepository
}

func NewMovieService(m *repository.MovieRepository) *MovieService {
	return &MovieService{movies: m}
}

func (s *MovieService) GetByID(ctx context.Context, movieID int) (*models.MovieDoc, error) {
	return s.movies.GetByID(ctx, movieID)
}

func (s *MovieService) Search(ctx context.Context, q, genre string, yearFrom, yearTo, limit, offset int) ([]models.MovieDoc, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.movies.Search(ctx, q, genre, yearFrom, yearTo, limit, offset)
}
