package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"vecinosml-pc3/internal/models"
	"vecinosml-pc3/internal/service"

	"github.com/go-chi/chi/v5"
)

// MaintenanceHandler expone endpoints de mantenimiento de la tabla de
// distancias.
type MaintenanceHandler struct {
	svc    *service.MaintenanceService
	recSvc *service.RecommendService
}

// NewMaintenanceHandler crea el handler.
func NewMaintenanceHandler(svc *service.MaintenanceService, recSvc *service.RecommendService) *MaintenanceHandler {
	return &MaintenanceHandler{svc: svc, recSvc: recSvc}
}

// @Summary Resumen de estado de la tabla de distancias
// @Description Conteos de usuarios totales/elegibles/analizados y parejas persistidas.
// @Tags admin-maintenance
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.DistanceSummary
// @Failure 500 {string} string "error interno"
// @Router /admin/maintenance/distances/summary [get]
func (h *MaintenanceHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.GetDistanceSummary(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// @Summary Reconstruir la tabla de distancias
// @Description Recalcula las distancias de la ventana configurada repartiendo shards entre los nodos ML (o local si no hay) y publica el snapshot nuevo.
// @Tags admin-maintenance
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.RebuildDistancesRequest true "Parámetros del rebuild"
// @Success 200 {object} models.RebuildDistancesResult
// @Failure 400 {string} string "body inválido"
// @Failure 500 {string} string "error interno"
// @Router /admin/maintenance/distances/rebuild [post]
func (h *MaintenanceHandler) PostRebuild(w http.ResponseWriter, r *http.Request) {
	var req models.RebuildDistancesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "body inválido", http.StatusBadRequest)
		return
	}

	res, err := h.svc.RebuildDistances(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// @Summary Vecinos más cercanos de un usuario
// @Description Ranking de vecinos por distancia ascendente, para inspección manual.
// @Tags admin-maintenance
// @Security BearerAuth
// @Produce json
// @Param id path int true "userId"
// @Param n query int false "máximo de vecinos"
// @Success 200 {array} engine.Neighbor
// @Router /admin/maintenance/users/{id}/neighbors [get]
func (h *MaintenanceHandler) GetNeighbors(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("n"))

	ns, err := h.svc.GetNeighbors(userID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, ns)
}

// @Summary Recomendaciones de toda la población analizada
// @Description Corre el generador para todos los usuarios con distancias calculadas (batch paralelo).
// @Tags admin-maintenance
// @Security BearerAuth
// @Produce json
// @Param n query int false "cantidad de títulos por usuario (máx 50)"
// @Success 200 {object} map[int][]string
// @Router /admin/maintenance/recommendations/batch [get]
func (h *MaintenanceHandler) GetBatchRecommendations(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("n"))
	workers, _ := strconv.Atoi(r.URL.Query().Get("workers"))

	all, err := h.recSvc.RecommendAll(r.Context(), limit, workers)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// Utilidad pequeña para respuestas JSON.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Helper para montar rutas en main.go
func MountMaintenanceRoutes(r chi.Router, h *MaintenanceHandler) {
	r.Route("/admin/maintenance", func(r chi.Router) {
		r.Get("/distances/summary", h.GetSummary)
		r.Post("/distances/rebuild", h.PostRebuild)
		r.Get("/users/{id}/neighbors", h.GetNeighbors)
		r.Get("/recommendations/batch", h.GetBatchRecommendations)
	})
}
