package main

import (
	"log"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/vendorguard/vendorguard/internal/api"
	"github.com/vendorguard/vendorguard/internal/db"
	"github.com/vendorguard/vendorguard/internal/middleware"
	"github.com/vendorguard/vendorguard/internal/services"
	"github.com/vendorguard/vendorguard/internal/utils"
)

func main() {
	addr := utils.SafeEnv("VENDORGUARD_ADDR", ":8080")
	driver := utils.SafeEnv("VENDORGUARD_DB_DRIVER", "sqlite3")
	dsn := utils.SafeEnv("VENDORGUARD_DB_DSN", "file:vendorguard.db?cache=shared&_busy_timeout=5000")
	sweepInterval := utils.EnvDuration("VENDORGUARD_SWEEP_INTERVAL", time.Hour)
	staleAfter := utils.EnvDuration("VENDORGUARD_REVIEW_STALE_AFTER", 7*24*time.Hour)

	dbx, err := sqlx.Open(driver, dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer dbx.Close()
	if driver == "sqlite3" {
		dbx.SetMaxOpenConns(1)
	}
	if err := db.RunMigrations(dbx, driver); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	store := db.New(dbx)
	notifications := services.NewNotificationService(store)
	router := &api.Router{
		Auth:          services.NewAuthService(store, middleware.SignToken),
		Assessments:   services.NewAssessmentService(store),
		Suppliers:     services.NewSupplierService(store),
		Submissions:   services.NewSubmissionService(store, notifications, services.DefaultScoringPolicy()),
		Notifications: notifications,
		Export:        services.NewExportService(store),
		Analytics:     services.NewAnalyticsService(store),
	}

	// Periodic reminder sweep for submissions stuck in review.
	if sweepInterval > 0 {
		go func() {
			ticker := time.NewTicker(sweepInterval)
			defer ticker.Stop()
			for range ticker.C {
				n, err := notifications.SweepStaleSubmissions(staleAfter)
				if err != nil {
					log.Printf("review reminder sweep: %v", err)
					continue
				}
				if n > 0 {
					log.Printf("review reminder sweep: %d reminders sent", n)
				}
			}
		}()
	}

	log.Printf("VendorGuard server listening on %s (driver %s)", addr, driver)
	if err := http.ListenAndServe(addr, router.Handler()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
