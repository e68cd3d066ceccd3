package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"vecinosml-pc3/internal/engine"
	"vecinosml-pc3/internal/repository"
)

// ErrEngineNotReady se devuelve cuando todavía no hay snapshot cargado
// (ni desde Mongo ni por un rebuild).
var ErrEngineNotReady = errors.New("la tabla de distancias todavía no está construida")

// Snapshot es el estado solo-lectura de la fase de consulta: store,
// tabla de distancias y títulos, congelados juntos. Un rebuild arma un
// snapshot nuevo completo y lo publica de un golpe; las consultas en
// curso siguen leyendo el anterior sin locks sobre los datos.
type Snapshot struct {
	Rec      *engine.Recommender
	Analyzed []int // ventana de usuarios con distancias calculadas
	BuiltAt  time.Time
}

// EngineService es el dueño del snapshot: un escritor (rebuild/carga),
// muchos lectores (recomendaciones). El RWMutex protege solo el puntero,
// los datos de un snapshot nunca se mutan después de publicados.
type EngineService struct {
	ratings   *repository.RatingRepository
	movies    *repository.MovieRepository
	distances *repository.DistanceRepository

	mu   sync.RWMutex
	snap *Snapshot
}

func NewEngineService(
	ratings *repository.RatingRepository,
	movies *repository.MovieRepository,
	distances *repository.DistanceRepository,
) *EngineService {
	return &EngineService{
		ratings:   ratings,
		movies:    movies,
		distances: distances,
	}
}

// LoadFromMongo arma el snapshot inicial con la tabla persistida por un
// rebuild anterior. Si no hay parejas guardadas deja el engine "not
// ready" en vez de fallar: el admin puede disparar un rebuild después.
func (s *EngineService) LoadFromMongo(ctx context.Context) error {
	store, err := s.ratings.LoadStore(ctx)
	if err != nil {
		return err
	}
	titles, err := s.movies.AllTitles(ctx)
	if err != nil {
		return err
	}
	pairs, err := s.distances.LoadPairs(ctx)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		log.Println("[engine] sin distancias persistidas, falta un rebuild")
		return nil
	}

	table := engine.NewDistanceTable()
	table.AddPairs(pairs)

	seen := make(map[int]struct{})
	var analyzed []int
	for _, p := range pairs {
		for _, u := range [2]int{p.UserA, p.UserB} {
			if _, ok := seen[u]; !ok {
				seen[u] = struct{}{}
				analyzed = append(analyzed, u)
			}
		}
	}
	sort.Ints(analyzed)

	s.Swap(&Snapshot{
		Rec:      &engine.Recommender{Store: store, Table: table, Titles: titles},
		Analyzed: analyzed,
		BuiltAt:  time.Now(),
	})
	log.Printf("[engine] snapshot cargado: %d usuarios analizados, %d parejas", len(analyzed), table.NumPairs())
	return nil
}

// Swap publica un snapshot nuevo.
func (s *EngineService) Swap(snap *Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

// Snapshot devuelve el estado actual para consulta.
func (s *EngineService) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	if snap == nil {
		return nil, ErrEngineNotReady
	}
	return snap, nil
}
