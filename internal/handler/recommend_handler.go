package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"vecinosml-pc3/internal/engine"
	"vecinosml-pc3/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type RecommendHandler struct {
	svc *service.RecommendService
}

func NewRecommendHandler(s *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{svc: s}
}

func recommendStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrUnknownUser):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEngineNotReady):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *RecommendHandler) serve(w http.ResponseWriter, r *http.Request, userID int) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("n"))
	refresh := r.URL.Query().Get("refresh") == "true"

	items, err := h.svc.Recommend(r.Context(), service.RecRequest{
		UserID:  userID,
		Limit:   limit,
		Refresh: refresh,
	})
	if err != nil {
		http.Error(w, err.Error(), recommendStatus(err))
		return
	}
	_ = json.NewEncoder(w).Encode(items)
}

// @Summary Recomendaciones para un usuario
// @Tags recommend
// @Produce json
// @Param id path int true "userId"
// @Param n query int false "cantidad de títulos (máx 50)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {array} string
// @Router /users/{id}/recommendations [get]
func (h *RecommendHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	h.serve(w, r, userID)
}

// @Summary Mis recomendaciones
// @Tags recommend
// @Produce json
// @Security BearerAuth
// @Param n query int false "cantidad de títulos (máx 50)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {array} string
// @Router /me/recommendations [get]
func (h *RecommendHandler) GetMyRecommendations(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	h.serve(w, r, UserIDFromContext(r.Context()))
}

// @Summary Historial de recomendaciones servidas
// @Tags recommend
// @Produce json
// @Param id path int true "userId"
// @Router /users/{id}/recommendations/history [get]
func (h *RecommendHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	list, err := h.svc.History(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(list)
}

// upgrader global (no afecta a swagger)
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Recomendaciones por WebSocket
// @Tags recommend
// @Produce json
// @Param id path int true "userId"
// @Param n query int false "cantidad de títulos (máx 50)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {object} map[string]interface{}
// @Router /users/{id}/ws/recommendations [get]
func (h *RecommendHandler) GetRecommendationsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "No se pudo abrir WebSocket", 400)
		return
	}
	defer conn.Close()

	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("n"))
	refresh := r.URL.Query().Get("refresh") == "true"

	conn.WriteJSON(map[string]any{
		"type": "start",
		"msg":  "Conexión WS abierta, generando recomendaciones…",
	})

	items, err := h.svc.Recommend(r.Context(), service.RecRequest{
		UserID:  userID,
		Limit:   limit,
		Refresh: refresh,
	})
	if err != nil {
		conn.WriteJSON(map[string]any{
			"type":  "error",
			"error": err.Error(),
		})
		return
	}

	conn.WriteJSON(map[string]any{
		"type":        "recommendations",
		"userId":      userID,
		"items":       items,
		"generatedAt": time.Now(),
	})
}
