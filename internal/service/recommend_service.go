package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"vecinosml-pc3/internal/cache"
	"vecinosml-pc3/internal/engine"
	"vecinosml-pc3/internal/models"
	"vecinosml-pc3/internal/repository"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50 // por seguridad, no deja pedir 1000 títulos
)

type RecommendService struct {
	eng     *EngineService
	recRepo *repository.RecommendationRepository
	// umbral de "le gustó" con el que se generan las listas
	likeThreshold float64
}

func NewRecommendService(eng *EngineService, recRepo *repository.RecommendationRepository, likeThreshold float64) *RecommendService {
	if likeThreshold <= 0 {
		likeThreshold = engine.DefaultLikeThreshold
	}
	return &RecommendService{
		eng:           eng,
		recRepo:       recRepo,
		likeThreshold: likeThreshold,
	}
}

// ====== Petición de recomendaciones ======

type RecRequest struct {
	UserID  int
	Limit   int
	Refresh bool
}

func cacheKey(req RecRequest) string {
	// Cachea por usuario + limit (refresh solo decide si usar cache)
	return fmt.Sprintf("rec:user:%d:n:%d", req.UserID, req.Limit)
}

// Recommend sirve la lista de títulos recomendados para un usuario,
// recorriendo sus vecinos del snapshot actual. El limit que pide el
// caller es el que manda (acotado a MaxLimit por sanidad).
func (s *RecommendService) Recommend(ctx context.Context, req RecRequest) ([]string, error) {
	// defaults y límites
	if req.Limit <= 0 {
		req.Limit = DefaultLimit
	} else if req.Limit > MaxLimit {
		req.Limit = MaxLimit
	}

	// 1) Cache Redis (solo si refresh = false)
	var cached []string
	if !req.Refresh {
		if ok, err := cache.GetJSON(ctx, cacheKey(req), &cached); err == nil && ok {
			return cached, nil
		}
	}

	// 2) Snapshot del engine (solo lectura)
	snap, err := s.eng.Snapshot()
	if err != nil {
		return nil, err
	}

	items, err := snap.Rec.Recommend(req.UserID, req.Limit, s.likeThreshold)
	if err != nil {
		return nil, err
	}

	// 3) Guardar historial en Mongo (no rompemos la respuesta si falla)
	if s.recRepo != nil {
		hist := &models.Recommendation{
			UserID: req.UserID,
			Algo:   "user-knn",
			Metric: "euclidean",
			Params: map[string]any{
				"limit":         req.Limit,
				"likeThreshold": s.likeThreshold,
				"refresh":       req.Refresh,
			},
			Items:     items,
			CreatedAt: time.Now(),
		}
		if err := s.recRepo.Insert(ctx, hist); err != nil {
			log.Printf("error guardando recomendación en Mongo: %v", err)
		}
	}

	// 4) Cachear en Redis (1 hora)
	if err := cache.SetJSON(ctx, cacheKey(req), items, 60*60); err != nil {
		log.Printf("error cacheando recomendación en Redis: %v", err)
	}

	return items, nil
}

// RecommendAll genera las listas de toda la población analizada de una
// sola pasada (batch). Cada usuario es independiente, así que el engine
// lo reparte entre workers; un usuario que falle no tumba a los demás.
func (s *RecommendService) RecommendAll(ctx context.Context, limit, workers int) (map[int][]string, error) {
	if limit <= 0 {
		limit = DefaultLimit
	} else if limit > MaxLimit {
		limit = MaxLimit
	}

	snap, err := s.eng.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Rec.RecommendAll(snap.Analyzed, limit, s.likeThreshold, workers), nil
}

// History lista las recomendaciones ya servidas a un usuario.
func (s *RecommendService) History(ctx context.Context, userID int) ([]models.Recommendation, error) {
	if s.recRepo == nil {
		return nil, errors.New("historial no configurado")
	}
	return s.recRepo.FindByUser(ctx, userID)
}
