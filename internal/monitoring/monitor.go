package monitoring

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Monitor collects host and database health stats for the admin
// dashboard's monitoring panel and pushes alerts to connected
// websocket clients. It runs inside the main server process.
type Monitor struct {
	db         *pgxpool.Pool
	alerts     []Alert
	alertsMux  sync.RWMutex
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	broadcast  chan Alert
	stop       chan struct{}
}

type Alert struct {
	ID        int       `json:"id"`
	Severity  string    `json:"severity"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Resolved  bool      `json:"resolved"`
}

type Stats struct {
	DatabaseStatus    string  `json:"database_status"`
	ActiveConnections int     `json:"active_connections"`
	ResponseTime      int64   `json:"response_time_ms"`
	ActiveAlerts      int     `json:"active_alerts"`
	CPUPercent        float64 `json:"cpu_percent"`
	MemoryPercent     float64 `json:"memory_percent"`
	DiskPercent       float64 `json:"disk_percent"`
	DBSize            string  `json:"db_size"`
	Uptime            string  `json:"uptime"`
	MemoryUsed        string  `json:"memory_used"`
	MemoryTotal       string  `json:"memory_total"`
	DiskUsed          string  `json:"disk_used"`
	DiskTotal         string  `json:"disk_total"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewMonitor(db *pgxpool.Pool) *Monitor {
	return &Monitor{
		db:        db,
		alerts:    make([]Alert, 0),
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Alert),
		stop:      make(chan struct{}),
	}
}

// Start launches the broadcaster and the background health checker.
func (m *Monitor) Start() {
	go m.handleBroadcast()
	go m.watchHealth()
}

func (m *Monitor) Close() {
	close(m.stop)
}

// CollectStats gathers a point-in-time snapshot of host and database health
func (m *Monitor) CollectStats(ctx context.Context) Stats {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	dbStatus := "healthy"
	var responseTime int64
	var activeConns int
	dbSize := "n/a"
	uptime := "n/a"

	if m.db != nil {
		start := time.Now()
		err := m.db.Ping(ctx)
		responseTime = time.Since(start).Milliseconds()
		if err != nil {
			dbStatus = "unhealthy"
		} else {
			m.db.QueryRow(ctx, "SELECT count(*) FROM pg_stat_activity").Scan(&activeConns)

			var dbSizeBytes int64
			m.db.QueryRow(ctx, "SELECT pg_database_size(current_database())").Scan(&dbSizeBytes)
			dbSize = formatBytes(uint64(dbSizeBytes))

			var uptimeSec int
			m.db.QueryRow(ctx, "SELECT EXTRACT(EPOCH FROM (NOW() - pg_postmaster_start_time()))::int").Scan(&uptimeSec)
			uptime = formatUptime(uptimeSec)
		}
	} else {
		dbStatus = "memory"
	}

	cpuPercents, _ := cpu.Percent(time.Second, false)
	cpuPercent := 0.0
	if len(cpuPercents) > 0 {
		cpuPercent = cpuPercents[0]
	}

	memStats, _ := mem.VirtualMemory()
	diskStats, _ := disk.Usage("/")

	m.alertsMux.RLock()
	activeAlertCount := 0
	for _, alert := range m.alerts {
		if !alert.Resolved {
			activeAlertCount++
		}
	}
	m.alertsMux.RUnlock()

	stats := Stats{
		DatabaseStatus:    dbStatus,
		ActiveConnections: activeConns,
		ResponseTime:      responseTime,
		ActiveAlerts:      activeAlertCount,
		CPUPercent:        cpuPercent,
		DBSize:            dbSize,
		Uptime:            uptime,
	}
	if memStats != nil {
		stats.MemoryPercent = memStats.UsedPercent
		stats.MemoryUsed = formatBytes(memStats.Used)
		stats.MemoryTotal = formatBytes(memStats.Total)
	}
	if diskStats != nil {
		stats.DiskPercent = diskStats.UsedPercent
		stats.DiskUsed = formatBytes(diskStats.Used)
		stats.DiskTotal = formatBytes(diskStats.Total)
	}
	return stats
}

// Alerts returns a copy of the alert history
func (m *Monitor) Alerts() []Alert {
	m.alertsMux.RLock()
	defer m.alertsMux.RUnlock()

	alerts := make([]Alert, len(m.alerts))
	copy(alerts, m.alerts)
	return alerts
}

// RaiseAlert records an alert and broadcasts it to websocket clients
func (m *Monitor) RaiseAlert(severity, alertType, message string) Alert {
	alert := Alert{
		Severity:  severity,
		Type:      alertType,
		Message:   message,
		Timestamp: time.Now(),
	}

	m.alertsMux.Lock()
	alert.ID = len(m.alerts) + 1
	m.alerts = append(m.alerts, alert)
	m.alertsMux.Unlock()

	m.broadcast <- alert
	return alert
}

// HandleWebSocket upgrades the connection and keeps it registered for
// alert broadcasts until the client hangs up.
func (m *Monitor) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("[Monitoring] WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	m.clientsMux.Lock()
	m.clients[conn] = true
	m.clientsMux.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			m.clientsMux.Lock()
			delete(m.clients, conn)
			m.clientsMux.Unlock()
			break
		}
	}
}

func (m *Monitor) handleBroadcast() {
	for alert := range m.broadcast {
		m.clientsMux.Lock()
		for client := range m.clients {
			if err := client.WriteJSON(alert); err != nil {
				client.Close()
				delete(m.clients, client)
			}
		}
		m.clientsMux.Unlock()
	}
}

func (m *Monitor) watchHealth() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			stats := m.CollectStats(context.Background())
			if stats.DatabaseStatus == "unhealthy" {
				m.RaiseAlert("critical", "database_down", "Database is unreachable")
			}
			if stats.ResponseTime > 1000 {
				m.RaiseAlert("warning", "high_latency",
					fmt.Sprintf("Database response time: %dms", stats.ResponseTime))
			}
		}
	}
}

func formatBytes(bytes uint64) string {
	gb := float64(bytes) / (1024 * 1024 * 1024)
	if gb < 1 {
		mb := float64(bytes) / (1024 * 1024)
		return fmt.Sprintf("%.1f MB", mb)
	}
	return fmt.Sprintf("%.1f GB", gb)
}

func formatUptime(seconds int) string {
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
