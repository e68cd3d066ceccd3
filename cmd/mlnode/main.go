package main

import (
	"bufio"
	"context"
	"encoding/json"
	"log"
	"net"
	"os"
	"time"

	"vecinosml-pc3/internal/cluster"
	"vecinosml-pc3/internal/config"
	"vecinosml-pc3/internal/db"
	"vecinosml-pc3/internal/engine"
	"vecinosml-pc3/internal/repository"
)

func main() {
	cfg := config.Load()
	db.InitMongo(cfg)

	addr := os.Getenv("ML_NODE_ADDR")
	if addr == "" {
		addr = ":9001"
	}

	nodeID := os.Getenv("NODE_ID")
	if nodeID == "" {
		nodeID = "?"
	}

	log.Printf("[ML NODE %s] escuchando en %s", nodeID, addr)

	ratingRepo := repository.NewRatingRepository()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Println("accept error:", err)
			continue
		}
		go handleConn(nodeID, conn, ratingRepo)
	}
}

func handleConn(nodeID string, conn net.Conn, ratings *repository.RatingRepository) {
	defer conn.Close()

	dec := json.NewDecoder(bufio.NewReader(conn))
	var task cluster.DistTask
	if err := dec.Decode(&task); err != nil {
		log.Printf("[ML NODE %s] decode task error: %v", nodeID, err)
		return
	}

	log.Printf("[ML NODE %s] tarea recibida: shard=%d/%d minSeen=%d overlap=%d maxUsers=%d",
		nodeID, task.ShardID, task.Shards, task.MinSeen, task.OverlapThreshold, task.MaxUsers)

	start := time.Now()

	pairs, err := computeShardDistances(context.Background(), task, ratings)
	if err != nil {
		log.Printf("[ML NODE %s] compute error: %v", nodeID, err)
		return
	}

	elapsed := time.Since(start)

	log.Printf("[ML NODE %s] completado: shard=%d/%d parejas=%d tiempo=%s",
		nodeID, task.ShardID, task.Shards, len(pairs), elapsed)

	resp := cluster.DistResponse{
		ShardID: task.ShardID,
		Pairs:   pairs,
	}

	if err := json.NewEncoder(conn).Encode(&resp); err != nil {
		log.Printf("[ML NODE %s] encode resp error: %v", nodeID, err)
	}
}

// computeShardDistances carga los ratings desde Mongo, arma el store
// disperso y calcula solo las filas de parejas que le tocan a este
// shard. Todos los nodos ven la misma ventana ordenada, así que la
// partición por fila es consistente entre shards.
func computeShardDistances(
	ctx context.Context,
	task cluster.DistTask,
	ratings *repository.RatingRepository,
) ([]engine.DistancePair, error) {

	store, err := ratings.LoadStore(ctx)
	if err != nil {
		return nil, err
	}

	eligible := store.Eligible(task.MinSeen)

	return engine.BuildDistances(store, eligible, engine.BuildOptions{
		OverlapThreshold: task.OverlapThreshold,
		MaxUsers:         task.MaxUsers,
		Workers:          task.Workers,
		ShardID:          task.ShardID,
		Shards:           task.Shards,
	}), nil
}
