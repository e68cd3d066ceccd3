package service

import (
	"context"
	"log"
	"sync"
	"time"

	"vecinosml-pc3/internal/cluster"
	"vecinosml-pc3/internal/config"
	"vecinosml-pc3/internal/engine"
	"vecinosml-pc3/internal/models"
	"vecinosml-pc3/internal/repository"
)

// MaintenanceService orquesta el rebuild de la tabla de distancias:
// reparte los shards entre los nodos ML (o calcula local si no hay),
// persiste el resultado y publica el snapshot nuevo.
type MaintenanceService struct {
	cfg       *config.Config
	eng       *EngineService
	ratings   *repository.RatingRepository
	movies    *repository.MovieRepository
	distances *repository.DistanceRepository
	mlNodes   []string
}

func NewMaintenanceService(
	cfg *config.Config,
	eng *EngineService,
	ratings *repository.RatingRepository,
	movies *repository.MovieRepository,
	distances *repository.DistanceRepository,
	mlNodes []string,
) *MaintenanceService {
	return &MaintenanceService{
		cfg:       cfg,
		eng:       eng,
		ratings:   ratings,
		movies:    movies,
		distances: distances,
		mlNodes:   mlNodes,
	}
}

// ---------------------- SUMMARY ----------------------

// GetDistanceSummary devuelve el estado global de la tabla.
func (s *MaintenanceService) GetDistanceSummary(ctx context.Context) (*models.DistanceSummary, error) {
	store, err := s.ratings.LoadStore(ctx)
	if err != nil {
		return nil, err
	}

	storedPairs, err := s.distances.Count(ctx)
	if err != nil {
		return nil, err
	}

	analyzed := int64(0)
	if snap, err := s.eng.Snapshot(); err == nil {
		analyzed = int64(len(snap.Analyzed))
	}

	return &models.DistanceSummary{
		TotalUsers:       int64(store.NumUsers()),
		EligibleUsers:    int64(len(store.Eligible(s.cfg.MinSeen))),
		AnalyzedUsers:    analyzed,
		StoredPairs:      storedPairs,
		MinSeen:          s.cfg.MinSeen,
		OverlapThreshold: s.cfg.OverlapThreshold,
	}, nil
}

// ---------------------- REBUILD DISTANCES ----------------------

// RebuildDistances recalcula la tabla completa dentro de la ventana
// configurada. Con nodos ML reparte un shard por nodo en paralelo y
// junta los parciales; sin nodos calcula todo en el proceso de la API.
func (s *MaintenanceService) RebuildDistances(
	ctx context.Context,
	req *models.RebuildDistancesRequest,
) (*models.RebuildDistancesResult, error) {

	if req.MinSeen <= 0 {
		req.MinSeen = s.cfg.MinSeen
	}
	if req.OverlapThreshold <= 0 {
		req.OverlapThreshold = s.cfg.OverlapThreshold
	}
	if req.MaxUsers <= 0 {
		req.MaxUsers = s.cfg.MaxUsers
	}

	start := time.Now()

	var pairs []engine.DistancePair
	shards := 1
	var err error

	if len(s.mlNodes) > 0 {
		shards = len(s.mlNodes)
		pairs, err = s.rebuildOnCluster(ctx, req, shards)
	} else {
		pairs, err = s.rebuildLocal(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	// Persistir y publicar el snapshot nuevo
	if err := s.distances.ReplaceAll(ctx, pairs); err != nil {
		return nil, err
	}

	store, err := s.ratings.LoadStore(ctx)
	if err != nil {
		return nil, err
	}
	titles, err := s.movies.AllTitles(ctx)
	if err != nil {
		return nil, err
	}

	table := engine.NewDistanceTable()
	table.AddPairs(pairs)

	eligible := store.Eligible(req.MinSeen)
	analyzed := eligible
	if req.MaxUsers > 0 && len(analyzed) > req.MaxUsers {
		analyzed = analyzed[:req.MaxUsers]
	}

	s.eng.Swap(&Snapshot{
		Rec:      &engine.Recommender{Store: store, Table: table, Titles: titles},
		Analyzed: analyzed,
		BuiltAt:  time.Now(),
	})

	elapsed := time.Since(start)
	log.Printf("[maintenance] rebuild listo: %d usuarios, %d parejas, %d shards, %s",
		len(analyzed), len(pairs), shards, elapsed)

	return &models.RebuildDistancesResult{
		AnalyzedUsers: len(analyzed),
		Pairs:         len(pairs),
		Shards:        shards,
		ElapsedMs:     elapsed.Milliseconds(),
	}, nil
}

func (s *MaintenanceService) rebuildLocal(
	ctx context.Context,
	req *models.RebuildDistancesRequest,
) ([]engine.DistancePair, error) {

	store, err := s.ratings.LoadStore(ctx)
	if err != nil {
		return nil, err
	}
	return engine.BuildDistances(store, store.Eligible(req.MinSeen), engine.BuildOptions{
		OverlapThreshold: req.OverlapThreshold,
		MaxUsers:         req.MaxUsers,
		Workers:          req.Workers,
	}), nil
}

// rebuildOnCluster manda un shard a cada nodo ML en paralelo y junta
// los parciales. Cada nodo calcula solo sus filas, nadie comparte
// mutación: los parciales se mergean acá al final.
func (s *MaintenanceService) rebuildOnCluster(
	ctx context.Context,
	req *models.RebuildDistancesRequest,
	shards int,
) ([]engine.DistancePair, error) {

	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	resCh := make(chan *cluster.DistResponse, shards)
	errCh := make(chan error, shards)

	var wg sync.WaitGroup
	for shardID, addr := range s.mlNodes {
		wg.Add(1)
		go func(addr string, shardID int) {
			defer wg.Done()
			task := &cluster.DistTask{
				ShardID:          shardID,
				Shards:           shards,
				MinSeen:          req.MinSeen,
				OverlapThreshold: req.OverlapThreshold,
				MaxUsers:         req.MaxUsers,
				Workers:          req.Workers,
			}
			resp, err := cluster.SendTask(ctxTimeout, addr, task)
			if err != nil {
				errCh <- err
				return
			}
			resCh <- resp
		}(addr, shardID)
	}

	wg.Wait()
	close(resCh)
	close(errCh)

	if len(errCh) > 0 {
		// si un shard falla la tabla quedaría incompleta: abortamos
		return nil, <-errCh
	}

	var pairs []engine.DistancePair
	for resp := range resCh {
		pairs = append(pairs, resp.Pairs...)
	}
	return pairs, nil
}

// ---------------------- NEIGHBORS (debug admin) ----------------------

// GetNeighbors expone el ranking de vecinos de un usuario tal como lo ve
// el generador, para inspección manual.
func (s *MaintenanceService) GetNeighbors(userID, limit int) ([]engine.Neighbor, error) {
	snap, err := s.eng.Snapshot()
	if err != nil {
		return nil, err
	}
	ns := snap.Rec.Table.ClosestNeighbors(userID)
	if limit > 0 && len(ns) > limit {
		ns = ns[:limit]
	}
	return ns, nil
}
