package engine

import "sort"

// Neighbor es otro usuario con distancia registrada hacia el sujeto.
type Neighbor struct {
	UserID   int     `json:"userId"`
	Distance float64 `json:"distance"`
}

// ClosestNeighbors devuelve todos los vecinos del usuario ordenados del
// más cercano al más lejano. Los empates se rompen por id de vecino:
// no es el desempate "correcto", solo uno estable para que dos corridas
// con los mismos datos den el mismo orden. Sin registros -> slice vacío.
func (t *DistanceTable) ClosestNeighbors(userID int) []Neighbor {
	row := t.dist[userID]
	if len(row) == 0 {
		return []Neighbor{}
	}

	out := make([]Neighbor, 0, len(row))
	for v, d := range row {
		out = append(out, Neighbor{UserID: v, Distance: d})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}
