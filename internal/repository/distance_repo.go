package repository

import (
	"context"
	"time"

	"vecinosml-pc3/internal/db"
	"vecinosml-pc3/internal/engine"
	"vecinosml-pc3/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DistanceRepository struct {
	col *mongo.Collection
}

func NewDistanceRepository() *DistanceRepository {
	return &DistanceRepository{col: db.DB().Collection("distances")}
}

// ReplaceAll reemplaza la tabla persistida por el resultado de un
// rebuild. Se guarda una fila por pareja no ordenada (userA < userB);
// el espejado es cosa de la tabla en memoria, no de Mongo.
func (r *DistanceRepository) ReplaceAll(ctx context.Context, pairs []engine.DistancePair) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(pairs) == 0 {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	docs := make([]any, len(pairs))
	for i, p := range pairs {
		a, b := p.UserA, p.UserB
		if a > b {
			a, b = b, a
		}
		docs[i] = models.DistanceDoc{
			UserA:     a,
			UserB:     b,
			Distance:  p.Distance,
			Metric:    "euclidean",
			UpdatedAt: now,
		}
	}
	_, err := r.col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return err
}

// LoadPairs levanta todas las parejas persistidas para rearmar la tabla.
func (r *DistanceRepository) LoadPairs(ctx context.Context) ([]engine.DistancePair, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []engine.DistancePair
	for cur.Next(ctx) {
		var doc models.DistanceDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, engine.DistancePair{
			UserA:    doc.UserA,
			UserB:    doc.UserB,
			Distance: doc.Distance,
		})
	}
	return out, cur.Err()
}

func (r *DistanceRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
