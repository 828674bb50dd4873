package handlers

import (
	"net/http"

	"tta-backend/internal/monitoring"
	"tta-backend/pkg/utils"
)

// MonitoringHandler exposes the live system stats and alert feed used
// by the admin status page.
type MonitoringHandler struct {
	Monitor *monitoring.Monitor
}

func NewMonitoringHandler(monitor *monitoring.Monitor) *MonitoringHandler {
	return &MonitoringHandler{Monitor: monitor}
}

// Stats returns a point-in-time snapshot of host and database health.
func (h *MonitoringHandler) Stats(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.Monitor.CollectStats(r.Context()))
}

// Alerts returns the recent alert ring buffer, newest first.
func (h *MonitoringHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	alerts := h.Monitor.Alerts()
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// AlertStream upgrades to a websocket that pushes alerts as they fire.
func (h *MonitoringHandler) AlertStream(w http.ResponseWriter, r *http.Request) {
	h.Monitor.HandleWebSocket(w, r)
}
