package models

// Lo que está en Mongo (una fila por evento de rating del feed limpio;
// puede haber repetidos por (userId, movieId), el engine los colapsa
// quedándose con el máximo).
type RatingDoc struct {
	UserID    int     `json:"userId" bson:"userId"`
	MovieID   int     `json:"movieId" bson:"movieId"`
	Rating    float64 `json:"rating" bson:"rating"` // escala 1..10
	Timestamp int64   `json:"timestamp" bson:"timestamp"`
}
