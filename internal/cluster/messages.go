package cluster

import "vecinosml-pc3/internal/engine"

// Tarea enviada desde el coordinador (API) a cada nodo ML: calcular las
// distancias de su shard de la ventana de usuarios. El nodo carga los
// ratings desde Mongo por su cuenta, así que la tarea solo lleva la
// partición y los umbrales.
type DistTask struct {
	ShardID          int `json:"shardId"` // id del shard (0..Shards-1)
	Shards           int `json:"shards"`  // total de shards/nodos
	MinSeen          int `json:"minSeen"`
	OverlapThreshold int `json:"overlapThreshold"`
	MaxUsers         int `json:"maxUsers"`
	Workers          int `json:"workers"`
}

// Respuesta de un nodo ML: sus parejas crudas (una por pareja no
// ordenada). El coordinador junta los parciales de todos los shards y
// recién ahí arma la tabla espejada.
type DistResponse struct {
	ShardID int                   `json:"shardId"`
	Pairs   []engine.DistancePair `json:"pairs"`
}
