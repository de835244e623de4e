package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"digishop/internal/database"
	"digishop/internal/middleware"
	"digishop/internal/modules/auth"
	"digishop/internal/modules/catalog"
	"digishop/internal/modules/download"
	jwtsvc "digishop/internal/pkg/jwt"
	"digishop/internal/repository"
)

func main() {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080/api/v1"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	purchasedFileRepo := repository.NewPurchasedFileRepository(db)
	downloadTokenRepo := repository.NewDownloadTokenRepository(db)
	mediaRepo := repository.NewMediaRepository(db)

	j := jwtsvc.New(secret, 24*time.Hour)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(productRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	downloadService := download.NewService(
		purchasedFileRepo,
		downloadTokenRepo,
		productRepo,
		mediaRepo,
		download.NewHTTPFetcher(http.DefaultClient),
		baseURL,
	)
	downloadHandler := download.NewHandler(downloadService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		catalogHandler.RegisterRoutes(v1)
		downloadHandler.RegisterRoutes(v1)

		// protected (customer downloads)
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			downloadHandler.RegisterProtectedRoutes(protected)
		}
	}

	addr := ":8080"
	if p := os.Getenv("PORT"); p != "" {
		addr = ":" + p
	}
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
