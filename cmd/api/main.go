package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"crowdfund/internal/database"
	"crowdfund/internal/middleware"
	"crowdfund/internal/modules/campaign"
	"crowdfund/internal/modules/donation"
	"crowdfund/internal/modules/payment"
	"crowdfund/internal/modules/user"
	"crowdfund/internal/pkg/cache"
	jwtsvc "crowdfund/internal/pkg/jwt"
	"crowdfund/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	donationRepo := repository.NewDonationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	j := jwtsvc.New(secret, 24*time.Hour, 7*24*time.Hour)
	store := cache.NewMemory(5 * time.Minute)

	userService := user.NewService(userRepo, j, store)
	userHandler := user.NewHandler(userService)

	campaignService := campaign.NewService(campaignRepo, store)
	campaignHandler := campaign.NewHandler(campaignService)

	donationService := donation.NewService(donationRepo, campaignRepo, store, log.Printf)
	donationHandler := donation.NewHandler(donationService)

	paymentService := payment.NewService(paymentRepo, donationRepo, donationService, payment.NewSimulatedGateway(), store, log.Printf)
	paymentHandler := payment.NewHandler(paymentService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		userHandler.RegisterPublicRoutes(v1)
		campaignHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			userHandler.RegisterProtectedRoutes(protected)
			campaignHandler.RegisterProtectedRoutes(protected)
			donationHandler.RegisterProtectedRoutes(protected)
			paymentHandler.RegisterProtectedRoutes(protected)

			admin := protected.Group("/")
			admin.Use(middleware.AdminOnly())
			{
				donationHandler.RegisterAdminRoutes(admin)
				paymentHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
