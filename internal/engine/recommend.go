package engine

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
)

// Recommender junta las tres piezas solo-lectura de la fase de consulta:
// el store de ratings, la tabla de distancias ya construida y los títulos
// para mapear ids a nombres en la salida.
type Recommender struct {
	Store  *RatingStore
	Table  *DistanceTable
	Titles map[int]string
}

func (r *Recommender) titleOf(movieID int) string {
	if t, ok := r.Titles[movieID]; ok {
		return t
	}
	// el feed de películas debería cubrir todo, pero no reventamos si no
	return fmt.Sprintf("pelicula %d", movieID)
}

// Recommend recorre los vecinos del usuario del más cercano al más
// lejano y va juntando las películas que a cada vecino le gustaron y el
// usuario no vio, sin duplicados, hasta llegar a limit. El limit que pide
// el caller manda: no hay truncado fijo escondido. Si los vecinos se
// agotan antes se devuelve lo acumulado (posiblemente vacío), que es un
// resultado normal, no un error.
func (r *Recommender) Recommend(userID, limit int, minRating float64) ([]string, error) {
	seen, err := r.Store.Seen(userID)
	if err != nil {
		return nil, err
	}

	out := []string{}
	if limit <= 0 {
		return out, nil
	}

	used := make(map[int]struct{})
	for _, n := range r.Table.ClosestNeighbors(userID) {
		liked, err := r.Store.Liked(n.UserID, minRating)
		if err != nil {
			// un vecino con distancia registrada siempre tiene ratings;
			// si no, lo saltamos sin tumbar al resto
			continue
		}

		// orden determinista dentro del vecino: id ascendente
		ids := make([]int, 0, len(liked))
		for m := range liked {
			ids = append(ids, m)
		}
		sort.Ints(ids)

		for _, m := range ids {
			if _, ok := seen[m]; ok {
				continue
			}
			if _, ok := used[m]; ok {
				continue
			}
			used[m] = struct{}{}
			out = append(out, r.titleOf(m))
			if len(out) == limit {
				return out, nil
			}
		}
	}
	return out, nil
}

// RecommendAll aplica Recommend a cada usuario de la población analizada.
// Es vergonzosamente paralelo: cada usuario lee solo estructuras
// inmutables, así que un pool de workers alcanza. Un fallo en un usuario
// no aborta el batch de los demás.
func (r *Recommender) RecommendAll(users []int, limit int, minRating float64, workers int) map[int][]string {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	userCh := make(chan int)
	out := make(map[int][]string, len(users))
	var mu sync.Mutex
	var wg sync.WaitGroup

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			local := make(map[int][]string)
			for u := range userCh {
				recs, err := r.Recommend(u, limit, minRating)
				if err != nil {
					continue
				}
				local[u] = recs
			}
			mu.Lock()
			for u, recs := range local {
				out[u] = recs
			}
			mu.Unlock()
		}()
	}

	for _, u := range users {
		userCh <- u
	}
	close(userCh)
	wg.Wait()

	return out
}
