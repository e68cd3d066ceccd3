package models

// MovieDoc es la película del feed limpio. El título solo se usa al
// momento de armar la salida de recomendaciones.
type MovieDoc struct {
	MovieID int      `json:"movieId" bson:"movieId"`
	Title   string   `json:"title" bson:"title"`
	Year    *int     `json:"year,omitempty" bson:"year,omitempty"`
	Genres  []string `json:"genres,omitempty" bson:"genres,omitempty"`
}
