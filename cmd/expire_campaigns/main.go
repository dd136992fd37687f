package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"crowdfund/internal/database"
	"crowdfund/internal/domain"
	"crowdfund/internal/modules/campaign"
	"crowdfund/internal/pkg/cache"
	"crowdfund/internal/repository"
)

// Nightly maintenance: closes campaign windows, reconciles campaigns whose
// raised amount already covers the goal, and cancels boletos nobody paid.
func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	ctx := context.Background()
	now := time.Now()

	campaignRepo := repository.NewCampaignRepository(db)
	campaignService := campaign.NewService(campaignRepo, cache.NewMemory(time.Minute))

	expired, err := campaignService.ExpireEnded(ctx, now)
	if err != nil {
		log.Fatalf("expire campaigns failed: %v", err)
	}

	completed, err := campaignService.CompleteReached(ctx)
	if err != nil {
		log.Fatalf("complete reached campaigns failed: %v", err)
	}

	// Boletos are generated PENDING and confirmed out of band; after three
	// days without confirmation they are dead.
	paymentRepo := repository.NewPaymentRepository(db)
	stale, err := paymentRepo.ListByStatusAndCreatedBefore(ctx, domain.PaymentPending, now.Add(-72*time.Hour))
	if err != nil {
		log.Fatalf("list stale payments failed: %v", err)
	}
	cancelled := 0
	for _, p := range stale {
		if err := paymentRepo.UpdateStatus(ctx, p.ID, domain.PaymentCancelled, nil); err != nil {
			log.Printf("level=warn msg=cancel stale payment failed payment_id=%d err=%v", p.ID, err)
			continue
		}
		cancelled++
	}

	log.Printf("campaign maintenance completed: expired=%d completed=%d stale_payments_cancelled=%d",
		expired, completed, cancelled)
}
