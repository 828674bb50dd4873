package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tta-backend/internal/handlers"
	"tta-backend/internal/middleware"
	"tta-backend/internal/models"
)

// NewRouter wires every API route. Login, the 2FA second step, the
// Razorpay webhook, health probes and /metrics stay public; everything
// under /api requires a session.
func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	totpHandler *handlers.TOTPHandler,
	repHandler *handlers.REPHandler,
	trialHandler *handlers.TrialHandler,
	wizardHandler *handlers.WizardHandler,
	trialCityHandler *handlers.TrialCityHandler,
	vendorHandler *handlers.VendorHandler,
	reportHandler *handlers.ReportHandler,
	paymentHandler *handlers.PaymentHandler,
	monitoringHandler *handlers.MonitoringHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/verify-2fa", totpHandler.VerifyTOTP).Methods("POST")

	// Public API routes - Razorpay server-to-server events
	r.HandleFunc("/webhooks/razorpay", paymentHandler.Webhook).Methods("POST")

	admin := authMiddleware.RequireAdmin

	// Protected API routes - Session
	sessionAPI := r.PathPrefix("/api").Subrouter()
	sessionAPI.Use(authMiddleware.Authenticate)
	sessionAPI.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	sessionAPI.HandleFunc("/me", authHandler.Me).Methods("GET")

	// Protected API routes - Users (admin only)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate)
	usersAPI.HandleFunc("", admin(http.HandlerFunc(userHandler.ListUsers)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("", admin(http.HandlerFunc(userHandler.CreateUser)).ServeHTTP).Methods("POST")
	usersAPI.HandleFunc("/{id}", admin(http.HandlerFunc(userHandler.GetUser)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("/{id}", admin(http.HandlerFunc(userHandler.UpdateUser)).ServeHTTP).Methods("PUT")
	usersAPI.HandleFunc("/{id}", admin(http.HandlerFunc(userHandler.DeleteUser)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Own account
	accountAPI := r.PathPrefix("/api/account").Subrouter()
	accountAPI.Use(authMiddleware.Authenticate)
	accountAPI.HandleFunc("/password", userHandler.ChangePassword).Methods("PUT")
	accountAPI.HandleFunc("/login-history", userHandler.LoginHistory).Methods("GET")
	accountAPI.HandleFunc("/profile", userHandler.GetProfile).Methods("GET")
	accountAPI.HandleFunc("/profile", userHandler.UpdateProfile).Methods("PUT")
	accountAPI.HandleFunc("/profile/photo", userHandler.UploadPhoto).Methods("POST")

	// Protected API routes - Two-factor auth
	totpAPI := r.PathPrefix("/api/2fa").Subrouter()
	totpAPI.Use(authMiddleware.Authenticate)
	totpAPI.HandleFunc("/setup", totpHandler.SetupTOTP).Methods("POST")
	totpAPI.HandleFunc("/enable", totpHandler.EnableTOTP).Methods("POST")
	totpAPI.HandleFunc("/disable", totpHandler.DisableTOTP).Methods("POST")
	totpAPI.HandleFunc("/status", totpHandler.GetStatus).Methods("GET")
	totpAPI.HandleFunc("/backup-codes", totpHandler.RegenerateBackupCodes).Methods("POST")

	// Protected API routes - REPs
	repsAPI := r.PathPrefix("/api/reps").Subrouter()
	repsAPI.Use(authMiddleware.Authenticate)
	repsAPI.HandleFunc("", repHandler.ListREPs).Methods("GET")
	repsAPI.HandleFunc("", repHandler.CreateREP).Methods("POST")
	repsAPI.HandleFunc("/{id}", repHandler.GetREP).Methods("GET")
	repsAPI.HandleFunc("/{id}", repHandler.UpdateREP).Methods("PUT")
	repsAPI.HandleFunc("/{id}", admin(http.HandlerFunc(repHandler.DeleteREP)).ServeHTTP).Methods("DELETE")
	repsAPI.HandleFunc("/{id}/documents", repHandler.UploadDocument).Methods("POST")

	// Protected API routes - Trials
	trialsAPI := r.PathPrefix("/api/trials").Subrouter()
	trialsAPI.Use(authMiddleware.Authenticate)
	trialsAPI.HandleFunc("", trialHandler.ListTrials).Methods("GET")
	trialsAPI.HandleFunc("", trialHandler.CreateTrial).Methods("POST")
	trialsAPI.HandleFunc("/check-name", trialHandler.CheckName).Methods("GET")
	trialsAPI.HandleFunc("/{id}", trialHandler.GetTrial).Methods("GET")
	trialsAPI.HandleFunc("/{id}", trialHandler.UpdateTrial).Methods("PUT")
	trialsAPI.HandleFunc("/{id}", admin(http.HandlerFunc(trialHandler.DeleteTrial)).ServeHTTP).Methods("DELETE")
	trialsAPI.HandleFunc("/{id}/payments", paymentHandler.ListTrialPayments).Methods("GET")
	trialsAPI.HandleFunc("/{id}/report.pdf", reportHandler.TrialPDF).Methods("GET")

	// Protected API routes - Trial creation wizard
	wizardAPI := r.PathPrefix("/api/wizard").Subrouter()
	wizardAPI.Use(authMiddleware.Authenticate)
	wizardAPI.HandleFunc("/drafts", wizardHandler.CreateDraft).Methods("POST")
	wizardAPI.HandleFunc("/template.csv", wizardHandler.CitiesTemplate).Methods("GET")
	wizardAPI.HandleFunc("/drafts/{id}", wizardHandler.GetDraft).Methods("GET")
	wizardAPI.HandleFunc("/drafts/{id}", wizardHandler.DeleteDraft).Methods("DELETE")
	wizardAPI.HandleFunc("/drafts/{id}/project-details", wizardHandler.SetProjectDetails).Methods("PUT")
	wizardAPI.HandleFunc("/drafts/{id}/cities", wizardHandler.AddCity).Methods("POST")
	wizardAPI.HandleFunc("/drafts/{id}/cities/import", wizardHandler.ImportCities).Methods("POST")
	wizardAPI.HandleFunc("/drafts/{id}/cities/{code}", wizardHandler.RemoveCity).Methods("DELETE")
	wizardAPI.HandleFunc("/drafts/{id}/tier", wizardHandler.SetTierPricing).Methods("PUT")
	wizardAPI.HandleFunc("/drafts/{id}/schedule", wizardHandler.SetSchedule).Methods("PUT")
	wizardAPI.HandleFunc("/drafts/{id}/review", wizardHandler.SetReview).Methods("PUT")
	wizardAPI.HandleFunc("/drafts/{id}/next", wizardHandler.Next).Methods("POST")
	wizardAPI.HandleFunc("/drafts/{id}/back", wizardHandler.Back).Methods("POST")
	wizardAPI.HandleFunc("/drafts/{id}/submit", wizardHandler.Submit).Methods("POST")

	// Protected API routes - Trial cities
	citiesAPI := r.PathPrefix("/api/trial-cities").Subrouter()
	citiesAPI.Use(authMiddleware.Authenticate)
	citiesAPI.HandleFunc("", trialCityHandler.ListTrialCities).Methods("GET")
	citiesAPI.HandleFunc("", trialCityHandler.CreateTrialCity).Methods("POST")
	citiesAPI.HandleFunc("/import", trialCityHandler.ImportCSV).Methods("POST")
	citiesAPI.HandleFunc("/import/live", trialCityHandler.ImportCSVLive).Methods("GET")
	citiesAPI.HandleFunc("/{code}", trialCityHandler.GetTrialCity).Methods("GET")
	citiesAPI.HandleFunc("/{code}", trialCityHandler.UpdateTrialCity).Methods("PUT")
	citiesAPI.HandleFunc("/{code}", admin(http.HandlerFunc(trialCityHandler.DeleteTrialCity)).ServeHTTP).Methods("DELETE")
	citiesAPI.HandleFunc("/{code}/reverify", trialCityHandler.Reverify).Methods("POST")

	// Protected API routes - Vendors
	vendorsAPI := r.PathPrefix("/api/vendors").Subrouter()
	vendorsAPI.Use(authMiddleware.Authenticate)
	vendorsAPI.HandleFunc("", vendorHandler.ListVendors).Methods("GET")
	vendorsAPI.HandleFunc("", vendorHandler.CreateVendor).Methods("POST")
	vendorsAPI.HandleFunc("/{id}", vendorHandler.GetVendor).Methods("GET")
	vendorsAPI.HandleFunc("/{id}", vendorHandler.UpdateVendor).Methods("PUT")
	vendorsAPI.HandleFunc("/{id}", admin(http.HandlerFunc(vendorHandler.DeleteVendor)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Payments
	paymentsAPI := r.PathPrefix("/api/payments").Subrouter()
	paymentsAPI.Use(authMiddleware.Authenticate)
	paymentsAPI.HandleFunc("/status", paymentHandler.Status).Methods("GET")
	paymentsAPI.HandleFunc("/orders", paymentHandler.CreateOrder).Methods("POST")
	paymentsAPI.HandleFunc("/verify", paymentHandler.VerifyPayment).Methods("POST")

	// Protected API routes - Reports and exports
	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(authMiddleware.Authenticate)
	reportsAPI.HandleFunc("/reps.csv", reportHandler.REPsCSV).Methods("GET")
	reportsAPI.HandleFunc("/trial-cities.csv", reportHandler.TrialCitiesCSV).Methods("GET")
	reportsAPI.HandleFunc("/trials.csv", reportHandler.TrialsCSV).Methods("GET")
	reportsAPI.HandleFunc("/seasons/{season}", reportHandler.SeasonSummary).Methods("GET")
	reportsAPI.HandleFunc("/seasons/{season}/trials.zip", reportHandler.SeasonPDFZip).Methods("GET")

	// Protected API routes - Monitoring (admin only)
	monitoringAPI := r.PathPrefix("/api/monitoring").Subrouter()
	monitoringAPI.Use(authMiddleware.Authenticate)
	monitoringAPI.Use(authMiddleware.RequireRole(models.RoleAdmin))
	monitoringAPI.HandleFunc("/stats", monitoringHandler.Stats).Methods("GET")
	monitoringAPI.HandleFunc("/alerts", monitoringHandler.Alerts).Methods("GET")
	monitoringAPI.HandleFunc("/alerts/stream", monitoringHandler.AlertStream).Methods("GET")

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
