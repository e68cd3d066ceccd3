// internal/repository/movie_repo.go
package repository

import (
	"context"

	"vecinosml-pc3/internal/db"
	"vecinosml-pc3/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MovieRepository struct {
	col *mongo.Collection
}

func NewMovieRepository() *MovieRepository {
	return &MovieRepository{col: db.DB().Collection("movies")}
}

func (r *MovieRepository) GetByID(ctx context.Context, movieID int) (*models.MovieDoc, error) {
	var m models.MovieDoc
	err := r.col.FindOne(ctx, bson.M{"movieId": movieID}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &m, err
}

// InsertMany carga películas del feed (para el loader de MovieLens).
func (r *MovieRepository) InsertMany(ctx context.Context, docs []models.MovieDoc) error {
	if len(docs) == 0 {
		return nil
	}
	rows := make([]any, len(docs))
	for i, d := range docs {
		rows[i] = d
	}
	_, err := r.col.InsertMany(ctx, rows, options.InsertMany().SetOrdered(false))
	return err
}

func (r *MovieRepository) Search(
	ctx context.Context,
	q string,
	genre string,
	yearFrom, yearTo int,
	limit, offset int,
) ([]models.MovieDoc, error) {

	filter := bson.M{}

	if q != "" {
		filter["title"] = bson.M{"$regex": q, "$options": "i"}
	}
	if genre != "" {
		// géneros es un array, esto busca que contenga ese género
		filter["genres"] = genre
	}
	if yearFrom > 0 || yearTo > 0 {
		yearCond := bson.M{}
		if yearFrom > 0 {
			yearCond["$gte"] = yearFrom
		}
		if yearTo > 0 {
			yearCond["$lte"] = yearTo
		}
		filter["year"] = yearCond
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.MovieDoc
	for cur.Next(ctx) {
		var m models.MovieDoc
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, cur.Err()
}

// AllTitles devuelve el mapa movieId -> título que usa el generador de
// recomendaciones para la salida.
func (r *MovieRepository) AllTitles(ctx context.Context) (map[int]string, error) {
	opts := options.Find().SetProjection(bson.M{"movieId": 1, "title": 1})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	titles := make(map[int]string)
	for cur.Next(ctx) {
		var doc struct {
			MovieID int    `bson:"movieId"`
			Title   string `bson:"title"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		titles[doc.MovieID] = doc.Title
	}
	return titles, cur.Err()
}
