package models

// ----- SUMMARY -----

// DistanceSummary es el resumen del estado de la tabla de distancias.
type DistanceSummary struct {
	TotalUsers       int64 `json:"totalUsers"`
	EligibleUsers    int64 `json:"eligibleUsers"`
	AnalyzedUsers    int64 `json:"analyzedUsers"` // ventana actual
	StoredPairs      int64 `json:"storedPairs"`
	MinSeen          int   `json:"minSeen"`
	OverlapThreshold int   `json:"overlapThreshold"`
}

// ----- REBUILD DISTANCES -----

// RebuildDistancesRequest body de /admin/distances/rebuild.
type RebuildDistancesRequest struct {
	MinSeen          int `json:"minSeen"`
	OverlapThreshold int `json:"overlapThreshold"`
	MaxUsers         int `json:"maxUsers"` // ventana de usuarios analizados
	Workers          int `json:"workers"`
}

// RebuildDistancesResult resultado de /admin/distances/rebuild.
type RebuildDistancesResult struct {
	AnalyzedUsers int   `json:"analyzedUsers"`
	Pairs         int   `json:"pairs"`
	Shards        int   `json:"shards"`
	ElapsedMs     int64 `json:"elapsedMs"`
}
