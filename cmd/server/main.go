package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"agendabeleza/internal/api"
	"agendabeleza/internal/auth"
	"agendabeleza/internal/cache"
	"agendabeleza/internal/catalog"
	"agendabeleza/internal/repository"
	"agendabeleza/internal/schedule"
	"agendabeleza/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	cat := catalog.Default()
	hours := schedule.HoursFromEnv()
	slotCache := cache.NewSlotCache(cache.NewRedisClient(), slotCacheTTL())

	appointmentRepo := repository.NewAppointmentRepository(db)
	adminAuthRepo := repository.NewAdminAuthRepository(db)
	jobRepo := repository.NewJobRepository(db)

	stripeSvc := service.NewStripeService()
	var gateway service.PaymentGateway
	if stripeSvc != nil {
		gateway = stripeSvc
	}
	sender := service.NewSenderService()
	bookingSvc := service.NewBookingService(appointmentRepo, cat, hours, gateway, sender, slotCache)
	adminSvc := service.NewAdminService(appointmentRepo, cat, gateway, sender, slotCache)
	adminAuthSvc := service.NewAdminAuthService(adminAuthRepo)
	jobSvc := service.NewJobService(jobRepo, cat, sender, slotCache)

	bookingHandler := api.NewBookingHandler(bookingSvc)
	adminHandler := api.NewAdminHandler(adminSvc)
	adminAuthHandler := api.NewAdminAuthHandler(adminAuthSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/services", bookingHandler.ListServices).Methods("GET")
	r.HandleFunc("/api/slots", bookingHandler.GetSlots).Methods("GET")
	r.HandleFunc("/api/appointments", bookingHandler.CreateAppointment).Methods("POST")
	r.HandleFunc("/api/appointments/{id}", bookingHandler.GetAppointment).Methods("GET")
	r.HandleFunc("/admin/login", adminAuthHandler.Login).Methods("POST")

	if stripeSvc != nil {
		webhookHandler := api.NewStripeWebhookHandler(os.Getenv("STRIPE_WEBHOOK_SECRET"), bookingSvc, stripeSvc)
		r.HandleFunc("/api/stripe/webhook", webhookHandler.HandleWebhook).Methods("POST")
	}

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware)
	admin.HandleFunc("/appointments", adminHandler.ListAppointments).Methods("GET")
	admin.HandleFunc("/appointments/{id}/status", adminHandler.UpdateAppointmentStatus).Methods("PUT")
	admin.HandleFunc("/admins", adminAuthHandler.CreateAdmin).Methods("POST")

	c := cron.New()
	c.AddFunc("@every 30m", func() {
		if err := jobSvc.CancelStalePending(pendingMaxAge()); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
	})
	c.AddFunc("0 18 * * *", func() {
		if err := jobSvc.SendDayBeforeReminders(); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
	})
	c.Start()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{allowedOrigin()}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, corsHandler(r))))
}

func allowedOrigin() string {
	if origin := os.Getenv("CORS_ORIGIN"); origin != "" {
		return origin
	}
	return "http://localhost:3000"
}

func slotCacheTTL() time.Duration {
	if v := os.Getenv("SLOT_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return 30 * time.Second
}

func pendingMaxAge() time.Duration {
	if v := os.Getenv("PENDING_MAX_AGE_HOURS"); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h > 0 {
			return time.Duration(h) * time.Hour
		}
	}
	return 24 * time.Hour
}
