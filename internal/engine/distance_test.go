package engine

import (
	"math"
	"testing"
)

func storeFrom(rows map[int]map[int]float64) *RatingStore {
	s := NewRatingStore()
	for u, items := range rows {
		for m, r := range items {
			s.AddObservation(u, m, r)
		}
	}
	return s
}

func TestEuclideanIdentity(t *testing.T) {
	s := storeFrom(map[int]map[int]float64{
		7: {10: 8, 20: 3, 30: 5},
	})
	d, ok := EuclideanDistance(s, 7, 7, 2)
	if !ok || d != 0 {
		t.Fatalf("distance(7,7) = (%v, %v), se esperaba (0, true) exacto", d, ok)
	}
}

func TestEuclideanValueAndSymmetry(t *testing.T) {
	s := storeFrom(map[int]map[int]float64{
		1: {10: 9, 20: 8, 30: 7, 40: 2},
		2: {10: 6, 20: 4, 30: 7, 50: 9},
	})
	// común = {10, 20, 30}: sqrt(3² + 4² + 0²) = 5
	d12, ok := EuclideanDistance(s, 1, 2, 2)
	if !ok {
		t.Fatal("la pareja (1,2) con 3 en común debería computarse")
	}
	if d12 != 5 {
		t.Fatalf("distance(1,2) = %v, se esperaba 5", d12)
	}
	d21, _ := EuclideanDistance(s, 2, 1, 2)
	if d12 != d21 {
		t.Fatalf("distance no simétrica: %v vs %v", d12, d21)
	}
}

func TestEuclideanSkipsNoOverlap(t *testing.T) {
	// usuario 2 vio {10,20,30,40}, usuario 104 vio {50,60}: overlap 0
	s := storeFrom(map[int]map[int]float64{
		2:   {10: 8, 20: 9, 30: 7, 40: 6},
		104: {50: 5, 60: 4},
	})
	if _, ok := EuclideanDistance(s, 2, 104, 2); ok {
		t.Fatal("pareja sin overlap no debería producir distancia")
	}
}

func TestEuclideanOverlapStrictlyGreater(t *testing.T) {
	// exactamente 2 compartidas con umbral 2: no se computa
	s := storeFrom(map[int]map[int]float64{
		1: {10: 8, 20: 9, 30: 1},
		2: {10: 8, 20: 9, 40: 1},
	})
	if _, ok := EuclideanDistance(s, 1, 2, 2); ok {
		t.Fatal("overlap == umbral debería saltarse (estrictamente mayor)")
	}
	if _, ok := EuclideanDistance(s, 1, 2, 1); !ok {
		t.Fatal("con umbral 1 la pareja de 2 en común sí se computa")
	}
}

func TestBuildDistancesMirrorsPairs(t *testing.T) {
	s := storeFrom(map[int]map[int]float64{
		1: {10: 9, 20: 8, 30: 7, 40: 6},
		2: {10: 9, 20: 8, 30: 7, 40: 6}, // idéntico a 1
		3: {10: 1, 20: 1, 30: 1},
		4: {99: 5}, // sin overlap útil con nadie
	})

	pairs := BuildDistances(s, []int{1, 2, 3, 4}, BuildOptions{OverlapThreshold: 2, Workers: 3})
	table := NewDistanceTable()
	table.AddPairs(pairs)

	// vectores idénticos: distancia 0 y mutuamente el vecino más cercano
	if d, ok := table.Distance(1, 2); !ok || d != 0 {
		t.Fatalf("distance(1,2) = (%v, %v), se esperaba (0, true)", d, ok)
	}

	// simetría exacta en toda la tabla
	for _, p := range pairs {
		ab, okA := table.Distance(p.UserA, p.UserB)
		ba, okB := table.Distance(p.UserB, p.UserA)
		if !okA || !okB || ab != ba {
			t.Fatalf("pareja (%d,%d) no está espejada: %v vs %v", p.UserA, p.UserB, ab, ba)
		}
	}

	// el usuario 4 no comparte nada: no aparece en ninguna pareja
	for _, p := range pairs {
		if p.UserA == 4 || p.UserB == 4 {
			t.Fatalf("el usuario 4 no debería tener distancias: %+v", p)
		}
	}
}

func TestBuildDistancesWindow(t *testing.T) {
	s := NewRatingStore()
	for u := 1; u <= 10; u++ {
		for m := 0; m < 5; m++ {
			s.AddObservation(u, m*10, float64(u%7)+1)
		}
	}

	pairs := BuildDistances(s, s.Eligible(2), BuildOptions{MaxUsers: 4, Workers: 2})
	// ventana de 4 usuarios -> a lo más C(4,2) = 6 parejas
	if len(pairs) > 6 {
		t.Fatalf("%d parejas con ventana de 4 usuarios, máximo 6", len(pairs))
	}
	for _, p := range pairs {
		if p.UserA > 4 || p.UserB > 4 {
			t.Fatalf("pareja fuera de la ventana: %+v", p)
		}
	}
}

func TestBuildDistancesShardsCoverAll(t *testing.T) {
	s := NewRatingStore()
	for u := 1; u <= 12; u++ {
		for m := 0; m < 6; m++ {
			s.AddObservation(u, m*10, float64((u+m)%10)+1)
		}
	}
	users := s.Eligible(2)

	full := BuildDistances(s, users, BuildOptions{Workers: 2})

	var sharded []DistancePair
	const shards = 3
	for sh := 0; sh < shards; sh++ {
		part := BuildDistances(s, users, BuildOptions{Workers: 2, ShardID: sh, Shards: shards})
		sharded = append(sharded, part...)
	}

	if len(full) != len(sharded) {
		t.Fatalf("los shards producen %d parejas, el build completo %d", len(sharded), len(full))
	}

	want := NewDistanceTable()
	want.AddPairs(full)
	for _, p := range sharded {
		d, ok := want.Distance(p.UserA, p.UserB)
		if !ok || d != p.Distance {
			t.Fatalf("pareja %+v no coincide con el build completo", p)
		}
	}
}

func TestCorrelationUndefined(t *testing.T) {
	s := storeFrom(map[int]map[int]float64{
		1: {10: 5, 20: 5, 30: 5, 40: 5}, // varianza cero en lo compartido
		2: {10: 9, 20: 3, 30: 7, 40: 1},
		3: {10: 9, 20: 3, 30: 7, 40: 1},
	})

	if _, ok := Correlation(s, 1, 2, 2); ok {
		t.Fatal("vector constante: la correlación debería quedar indefinida")
	}
	// overlap insuficiente también es indefinido, no 0 numérico
	if _, ok := Correlation(s, 1, 2, 4); ok {
		t.Fatal("overlap <= umbral debería dar ok=false")
	}

	c, ok := Correlation(s, 2, 3, 2)
	if !ok {
		t.Fatal("vectores idénticos con varianza: correlación definida")
	}
	if math.Abs(c-1) > 1e-12 {
		t.Fatalf("correlación de vectores idénticos = %v, se esperaba 1", c)
	}
}
