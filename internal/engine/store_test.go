package engine

import (
	"errors"
	"testing"
)

func TestAddObservationKeepsMaxOnDuplicate(t *testing.T) {
	s := NewRatingStore()
	s.AddObservation(1, 10, 4)
	s.AddObservation(1, 10, 9)
	s.AddObservation(1, 10, 6) // llega después pero es menor

	r, ok := s.Rating(1, 10)
	if !ok {
		t.Fatal("rating (1,10) no registrado")
	}
	if r != 9 {
		t.Fatalf("rating = %v, se esperaba el máximo observado 9", r)
	}
}

func TestSeenUnknownUser(t *testing.T) {
	s := NewRatingStore()
	s.AddObservation(1, 10, 8)

	if _, err := s.Seen(99); !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("Seen(99) err = %v, se esperaba ErrUnknownUser", err)
	}
	if _, err := s.Liked(99, 7); !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("Liked(99) err = %v, se esperaba ErrUnknownUser", err)
	}
}

func TestLikedThreshold(t *testing.T) {
	s := NewRatingStore()
	s.AddObservation(2, 10, 8)
	s.AddObservation(2, 20, 7) // justo en el umbral: cuenta
	s.AddObservation(2, 30, 6)

	liked, err := s.Liked(2, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(liked) != 2 {
		t.Fatalf("liked = %v, se esperaban {10, 20}", liked)
	}
	if _, ok := liked[30]; ok {
		t.Fatal("la película 30 (rating 6) no debería estar en liked")
	}

	// ninguna favorita: set vacío, no error
	empty, err := s.Liked(2, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Fatalf("liked con umbral 10 = %v, se esperaba vacío", empty)
	}
}

func TestEligibleStrictBound(t *testing.T) {
	s := NewRatingStore()
	// usuario 1 con exactamente 2 vistas: queda fuera con lowerBound=2
	s.AddObservation(1, 10, 5)
	s.AddObservation(1, 20, 5)
	// usuario 2 con 3 vistas: entra
	s.AddObservation(2, 10, 5)
	s.AddObservation(2, 20, 5)
	s.AddObservation(2, 30, 5)

	got := s.Eligible(2)
	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("Eligible(2) = %v, se esperaba [2]", got)
	}
}

func TestEligibleMonotone(t *testing.T) {
	s := NewRatingStore()
	for u := 1; u <= 5; u++ {
		for m := 0; m < u; m++ {
			s.AddObservation(u, m*10, 5)
		}
	}

	// subir la cota nunca agranda el conjunto elegible
	prev := len(s.Eligible(0))
	for bound := 1; bound <= 6; bound++ {
		cur := len(s.Eligible(bound))
		if cur > prev {
			t.Fatalf("Eligible(%d) tiene %d usuarios, más que Eligible(%d) con %d", bound, cur, bound-1, prev)
		}
		prev = cur
	}
}
