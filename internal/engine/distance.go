package engine

import (
	"math"
	"runtime"
	"sort"
	"sync"
)

// DistancePair es el resultado crudo de una pareja no ordenada. Cada
// pareja se calcula una sola vez; la tabla la espeja en ambos sentidos.
type DistancePair struct {
	UserA    int     `json:"userA" bson:"userA"`
	UserB    int     `json:"userB" bson:"userB"`
	Distance float64 `json:"distance" bson:"distance"`
}

// DistanceTable es la tabla simétrica de distancias ya construida.
// Se llena una vez (fase de build) y después es solo lectura, así las
// consultas en paralelo no necesitan locks.
type DistanceTable struct {
	dist map[int]map[int]float64 // userId -> userId -> distancia
}

func NewDistanceTable() *DistanceTable {
	return &DistanceTable{dist: make(map[int]map[int]float64)}
}

func (t *DistanceTable) put(a, b int, d float64) {
	row, ok := t.dist[a]
	if !ok {
		row = make(map[int]float64)
		t.dist[a] = row
	}
	row[b] = d
}

// AddPairs agrega resultados crudos espejando cada pareja.
func (t *DistanceTable) AddPairs(pairs []DistancePair) {
	for _, p := range pairs {
		t.put(p.UserA, p.UserB, p.Distance)
		t.put(p.UserB, p.UserA, p.Distance)
	}
}

// Distance devuelve la distancia registrada entre dos usuarios.
// ok=false significa "relación desconocida" (overlap insuficiente o
// usuarios fuera de la ventana analizada), no un error.
func (t *DistanceTable) Distance(a, b int) (float64, bool) {
	if a == b {
		// identidad exacta, sin ruido de flotantes
		return 0, true
	}
	d, ok := t.dist[a][b]
	return d, ok
}

// NumPairs cuenta las parejas no ordenadas registradas.
func (t *DistanceTable) NumPairs() int {
	total := 0
	for _, row := range t.dist {
		total += len(row)
	}
	return total / 2
}

// EuclideanDistance calcula la distancia euclidiana entre dos usuarios
// restringida a las películas que ambos calificaron, alineando por id de
// película (el orden de los mapas no importa). Si la intersección tiene
// overlapThreshold elementos o menos la pareja no se computa: ok=false.
func EuclideanDistance(s *RatingStore, u1, u2, overlapThreshold int) (float64, bool) {
	if u1 == u2 {
		return 0, true
	}
	r1 := s.ratings[u1]
	r2 := s.ratings[u2]
	if len(r2) < len(r1) {
		r1, r2 = r2, r1
	}

	common := 0
	sum := 0.0
	for m, a := range r1 {
		if b, ok := r2[m]; ok {
			common++
			d := a - b
			sum += d * d
		}
	}
	if common <= overlapThreshold {
		return 0, false
	}
	return math.Sqrt(sum), true
}

// BuildOptions controla la fase de cálculo de distancias.
type BuildOptions struct {
	// Parejas con intersección <= OverlapThreshold no se calculan.
	OverlapThreshold int
	// MaxUsers limita la ventana de usuarios analizados (0 = todos).
	// Todas-las-parejas sobre el dataset completo es cuadrático y no
	// es viable, por eso la ventana es parte del contrato.
	MaxUsers int
	// Workers del pool local (0 = NumCPU).
	Workers int
	// ShardID/Shards particionan las filas entre nodos ML.
	// Shards <= 1 calcula todo localmente.
	ShardID int
	Shards  int
}

func (o *BuildOptions) normalize() {
	if o.OverlapThreshold <= 0 {
		o.OverlapThreshold = DefaultOverlapThreshold
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Shards <= 1 {
		o.ShardID, o.Shards = 0, 1
	}
}

// BuildDistances calcula las distancias de todas las parejas (i<j) de la
// ventana de usuarios. Cada worker acumula sus parejas en un slice local
// y los parciales se juntan al final: nada comparte mutación durante el
// cálculo, el store es solo lectura.
func BuildDistances(store *RatingStore, users []int, opts BuildOptions) []DistancePair {
	opts.normalize()

	window := append([]int(nil), users...)
	sort.Ints(window)
	if opts.MaxUsers > 0 && len(window) > opts.MaxUsers {
		window = window[:opts.MaxUsers]
	}
	if len(window) < 2 {
		return nil
	}

	rowCh := make(chan int)
	partCh := make(chan []DistancePair, opts.Workers)

	var wg sync.WaitGroup
	wg.Add(opts.Workers)
	for w := 0; w < opts.Workers; w++ {
		go func() {
			defer wg.Done()
			var local []DistancePair
			for i := range rowCh {
				u1 := window[i]
				for j := i + 1; j < len(window); j++ {
					u2 := window[j]
					if d, ok := EuclideanDistance(store, u1, u2, opts.OverlapThreshold); ok {
						local = append(local, DistancePair{UserA: u1, UserB: u2, Distance: d})
					}
				}
			}
			partCh <- local
		}()
	}

	go func() {
		for i := 0; i < len(window); i++ {
			// partición por fila entre shards (mismo esquema en cada nodo)
			if i%opts.Shards != opts.ShardID {
				continue
			}
			rowCh <- i
		}
		close(rowCh)
		wg.Wait()
		close(partCh)
	}()

	var out []DistancePair
	for part := range partCh {
		out = append(out, part...)
	}
	return out
}
