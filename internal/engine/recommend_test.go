package engine

import (
	"errors"
	"reflect"
	"testing"
)

func testRecommender() *Recommender {
	// usuario 1: objetivo. vecino 2 casi idéntico, vecino 3 más lejos.
	s := storeFrom(map[int]map[int]float64{
		1: {10: 9, 20: 8, 30: 7},
		2: {10: 9, 20: 8, 30: 7, 40: 9, 50: 8, 60: 3},
		3: {10: 5, 20: 4, 30: 3, 50: 10, 70: 9},
	})
	table := NewDistanceTable()
	table.AddPairs(BuildDistances(s, s.Eligible(2), BuildOptions{OverlapThreshold: 2}))

	return &Recommender{
		Store: s,
		Table: table,
		Titles: map[int]string{
			10: "Toy Story", 20: "Jumanji", 30: "Heat",
			40: "Casino", 50: "GoldenEye", 60: "Sabrina", 70: "Nixon",
		},
	}
}

func TestClosestNeighborsOrder(t *testing.T) {
	r := testRecommender()
	ns := r.Table.ClosestNeighbors(1)
	if len(ns) != 2 {
		t.Fatalf("vecinos de 1 = %v, se esperaban 2", ns)
	}
	if ns[0].UserID != 2 || ns[1].UserID != 3 {
		t.Fatalf("orden de vecinos = %v, se esperaba [2 3]", ns)
	}
	if ns[0].Distance != 0 {
		t.Fatalf("el vecino idéntico debería estar a distancia 0, no %v", ns[0].Distance)
	}
}

func TestClosestNeighborsTieBreakStable(t *testing.T) {
	table := NewDistanceTable()
	table.AddPairs([]DistancePair{
		{UserA: 1, UserB: 9, Distance: 2.5},
		{UserA: 1, UserB: 4, Distance: 2.5},
		{UserA: 1, UserB: 7, Distance: 2.5},
	})
	for i := 0; i < 20; i++ {
		ns := table.ClosestNeighbors(1)
		if ns[0].UserID != 4 || ns[1].UserID != 7 || ns[2].UserID != 9 {
			t.Fatalf("empate no estable: %v", ns)
		}
	}
}

func TestClosestNeighborsEmpty(t *testing.T) {
	table := NewDistanceTable()
	if ns := table.ClosestNeighbors(42); len(ns) != 0 {
		t.Fatalf("usuario sin registros = %v, se esperaba vacío", ns)
	}
}

func TestRecommendBasics(t *testing.T) {
	r := testRecommender()
	recs, err := r.Recommend(1, 10, 7)
	if err != nil {
		t.Fatal(err)
	}

	// vecino 2 aporta {40 Casino, 50 GoldenEye}; vecino 3 aporta {70 Nixon}
	// (50 ya salió por el vecino 2: dedup entre vecinos)
	want := []string{"Casino", "GoldenEye", "Nixon"}
	if !reflect.DeepEqual(recs, want) {
		t.Fatalf("recs = %v, se esperaba %v", recs, want)
	}

	seen, _ := r.Store.Seen(1)
	title2id := map[string]int{}
	for id, title := range r.Titles {
		title2id[title] = id
	}
	for _, title := range recs {
		if _, ok := seen[title2id[title]]; ok {
			t.Fatalf("recomendación %q ya vista por el usuario", title)
		}
	}
}

func TestRecommendCapTruncates(t *testing.T) {
	// el vecino más cercano aporta 12 películas no vistas: con limit=10
	// salen exactamente 10, en el orden del vecino (id ascendente)
	s := storeFrom(map[int]map[int]float64{
		1: {1: 9, 2: 8, 3: 7},
		2: {1: 9, 2: 8, 3: 7},
	})
	for m := 100; m < 112; m++ {
		s.AddObservation(2, m, 9)
	}
	table := NewDistanceTable()
	table.AddPairs(BuildDistances(s, s.Eligible(2), BuildOptions{OverlapThreshold: 2}))

	r := &Recommender{Store: s, Table: table, Titles: map[int]string{}}
	recs, err := r.Recommend(1, 10, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 10 {
		t.Fatalf("len(recs) = %d, se esperaba exactamente 10", len(recs))
	}
	if recs[0] != "pelicula 100" || recs[9] != "pelicula 109" {
		t.Fatalf("truncado fuera de orden: %v", recs)
	}
}

func TestRecommendExhaustedNeighbors(t *testing.T) {
	r := testRecommender()

	// pide mucho más de lo que los vecinos pueden dar: parcial, sin error
	recs, err := r.Recommend(1, 100, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("len(recs) = %d, se esperaban las 3 disponibles", len(recs))
	}

	// usuario sin vecinos: vacío, sin error
	lonely := storeFrom(map[int]map[int]float64{5: {10: 8, 20: 7, 30: 6}})
	r2 := &Recommender{Store: lonely, Table: NewDistanceTable(), Titles: nil}
	recs2, err := r2.Recommend(5, 10, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs2) != 0 {
		t.Fatalf("sin vecinos = %v, se esperaba vacío", recs2)
	}
}

func TestRecommendUnknownUser(t *testing.T) {
	r := testRecommender()
	if _, err := r.Recommend(999, 10, 7); !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("err = %v, se esperaba ErrUnknownUser", err)
	}
}

func TestRecommendIdempotent(t *testing.T) {
	r := testRecommender()
	first, err := r.Recommend(1, 10, 7)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 25; i++ {
		again, err := r.Recommend(1, 10, 7)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("corrida %d difiere: %v vs %v", i, again, first)
		}
	}
}

func TestRecommendAllMatchesSequential(t *testing.T) {
	r := testRecommender()
	users := r.Store.Users()

	all := r.RecommendAll(users, 10, 7, 4)
	if len(all) != len(users) {
		t.Fatalf("RecommendAll cubrió %d usuarios de %d", len(all), len(users))
	}
	for _, u := range users {
		seq, err := r.Recommend(u, 10, 7)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(all[u], seq) {
			t.Fatalf("usuario %d: paralelo %v vs secuencial %v", u, all[u], seq)
		}
	}
}
