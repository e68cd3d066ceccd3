package models

// DistanceDoc es una pareja no ordenada persistida en Mongo (userA < userB).
// La tabla en memoria la espeja en ambos sentidos al cargarla.
type DistanceDoc struct {
	UserA     int     `json:"userA" bson:"userA"`
	UserB     int     `json:"userB" bson:"userB"`
	Distance  float64 `json:"distance" bson:"distance"`
	Metric    string  `json:"metric" bson:"metric"` // "euclidean"
	UpdatedAt string  `json:"updatedAt" bson:"updatedAt"`
}
