package main

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"crowdfund/internal/database"
	"crowdfund/internal/domain"
)

func main() {
	db, err := database.Connect("crowdfund.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM payments")
	db.Exec("DELETE FROM donations")
	db.Exec("DELETE FROM campaigns")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Username:     "admin",
		Email:        "admin@crowdfund.dev",
		PasswordHash: string(adminHash),
		FirstName:    "Admin",
		LastName:     "User",
		Role:         domain.RoleAdmin,
		Enabled:      true,
	}
	db.Create(&admin)
	log.Println("Admin created: admin / admin123")

	donors := []domain.User{}
	for i := 1; i <= 3; i++ {
		hash, _ := bcrypt.GenerateFromPassword([]byte("donor123"), bcrypt.DefaultCost)
		donor := domain.User{
			Username:     fmt.Sprintf("donor%d", i),
			Email:        fmt.Sprintf("donor%d@mail.com", i),
			PasswordHash: string(hash),
			FirstName:    fmt.Sprintf("Donor %d", i),
			Role:         domain.RoleUser,
			Enabled:      true,
		}
		db.Create(&donor)
		donors = append(donors, donor)
	}

	// ================== CAMPAIGNS ==================
	log.Println("Creating campaigns...")
	titles := []string{"Community garden", "Open source fund", "Animal shelter roof"}
	campaigns := []domain.Campaign{}
	for i, title := range titles {
		c := domain.Campaign{
			Title:       title,
			Description: "Seeded campaign for local development",
			GoalAmount:  500 * float64(i+1),
			Status:      domain.CampaignActive,
			StartDate:   time.Now().AddDate(0, 0, -7),
			EndDate:     time.Now().AddDate(0, 1, 0),
			UserID:      donors[i%len(donors)].ID,
		}
		db.Create(&c)
		campaigns = append(campaigns, c)
	}

	// One DRAFT campaign to exercise the inactive-campaign rule.
	db.Create(&domain.Campaign{
		Title:       "Unpublished project",
		Description: "Still a draft",
		GoalAmount:  1000,
		Status:      domain.CampaignDraft,
		StartDate:   time.Now(),
		EndDate:     time.Now().AddDate(0, 2, 0),
		UserID:      donors[0].ID,
	})

	// ================== DONATIONS ==================
	log.Println("Creating donations...")
	for i := 0; i < 6; i++ {
		db.Create(&domain.Donation{
			CampaignID:    campaigns[i%len(campaigns)].ID,
			UserID:        donors[i%len(donors)].ID,
			Amount:        25 * float64(i+1),
			PaymentMethod: domain.MethodPix,
			Status:        domain.DonationPending,
		})
	}

	log.Println("Seed completed!")
	log.Println("Test accounts:")
	log.Println("Admin: admin / admin123")
	log.Println("Donors: donor1 ... donor3 / donor123")
}
