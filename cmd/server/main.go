package main // Entry point package

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/rajat290/cinex-booking/internal/booking"
	"github.com/rajat290/cinex-booking/internal/config"
	"github.com/rajat290/cinex-booking/internal/database"
	"github.com/rajat290/cinex-booking/internal/handler"
	"github.com/rajat290/cinex-booking/internal/inventory"
	"github.com/rajat290/cinex-booking/internal/queue"
	"github.com/rajat290/cinex-booking/internal/repository"
	"github.com/rajat290/cinex-booking/internal/router"
	queuepub "github.com/rajat290/cinex-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client turns the cache and rate limiter
	// into pass-throughs.  Seat correctness never depends on it.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable, cache and rate limiting disabled")
	}

	showRepo := repository.NewShowRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	// Rebuild the in-memory inventories from the durable records: every
	// layout comes online, then seats from confirmed bookings are marked
	// sold.  Holds are not persisted; a restart simply frees them early.
	ctx := context.Background()
	inv := inventory.NewManager(
		inventory.WithHoldTTL(cfg.HoldTTL),
		inventory.WithMaxHoldTTL(cfg.MaxHoldTTL),
	)
	layouts, err := showRepo.LoadLayouts(ctx)
	if err != nil {
		log.Fatalf("failed to load seat layouts: %v", err)
	}
	for showID, layout := range layouts {
		inv.Register(showID, layout)
	}
	sold, err := bookingRepo.SoldSeatsByShow(ctx)
	if err != nil {
		log.Fatalf("failed to load sold seats: %v", err)
	}
	for showID, seats := range sold {
		if err := inv.MarkSold(showID, seats); err != nil {
			log.Fatalf("failed to rebuild show %d: %v", showID, err)
		}
	}
	logger.Info("inventories rebuilt", slog.Int("shows", len(layouts)))

	lastOrdinal, err := bookingRepo.MaxOrdinal(ctx)
	if err != nil {
		log.Fatalf("failed to read last booking ordinal: %v", err)
	}
	codes := booking.NewCodeAllocator(cfg.BookingCodePrefix, lastOrdinal)

	svc := booking.NewService(bookingRepo, inv, codes, queuepub.New(), logger)

	// Background workers: the expiry sweeper frees lapsed holds and the
	// queue consumer drains booking.confirmed for notifications.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	go inventory.NewSweeper(inv, cfg.SweepInterval, logger).Run(workerCtx)
	go queue.StartBookingConsumer(workerCtx)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, rdb,
		handler.NewShowHandler(showRepo, inv),
		handler.NewHoldHandler(inv),
		handler.NewBookingHandler(svc),
	)

	addr := ":" + cfg.Port
	logger.Info("listening", slog.String("addr", addr), slog.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
