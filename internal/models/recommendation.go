package models

import "time"

// Recommendation es el historial que guardamos en Mongo por cada pedido
// servido. Items son títulos, que es lo que consume la presentación.
type Recommendation struct {
	ID        string    `bson:"_id,omitempty"    json:"id"`
	UserID    int       `bson:"userId"           json:"userId"`
	Algo      string    `bson:"algo"             json:"algo"`
	Metric    string    `bson:"metric"           json:"metric"`
	Params    any       `bson:"params"           json:"params"`
	Items     []string  `bson:"items"            json:"items"`
	CreatedAt time.Time `bson:"createdAt"        json:"createdAt"`
}
