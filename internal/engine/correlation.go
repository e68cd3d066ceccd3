package engine

import "math"

// Correlation es la métrica alternativa (coeficiente de Pearson sobre la
// intersección de películas). No se usa en el pipeline de producción:
// cuando alguno de los dos vectores restringidos tiene varianza cero
// (un usuario calificó igual todo lo compartido, o quedan 2 items
// degenerados) el coeficiente queda indefinido. Ese caso se reporta como
// ok=false, nunca como un valor numérico centinela, para que el ranking
// no pueda tratar "indefinido" como "muy parecido" ni "muy lejano".
func Correlation(s *RatingStore, u1, u2, overlapThreshold int) (float64, bool) {
	r1 := s.ratings[u1]
	r2 := s.ratings[u2]
	if len(r2) < len(r1) {
		r1, r2 = r2, r1
	}

	common := 0
	var sumA, sumB float64
	for m, a := range r1 {
		if b, ok := r2[m]; ok {
			common++
			sumA += a
			sumB += b
		}
	}
	if common <= overlapThreshold {
		return 0, false
	}

	meanA := sumA / float64(common)
	meanB := sumB / float64(common)

	var num, denA, denB float64
	for m, a := range r1 {
		b, ok := r2[m]
		if !ok {
			continue
		}
		da := a - meanA
		db := b - meanB
		num += da * db
		denA += da * da
		denB += db * db
	}
	if denA == 0 || denB == 0 {
		// varianza cero: similitud indefinida
		return 0, false
	}
	return num / (math.Sqrt(denA) * math.Sqrt(denB)), true
}
