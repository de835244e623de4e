package main

import (
	"log"

	"digishop/internal/database"
	"digishop/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	db, err := database.Connect("digishop.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Shop{},
		&domain.Product{},
		&domain.DigitalFile{},
		&domain.Order{},
		&domain.PurchasedFile{},
		&domain.DownloadToken{},
		&domain.Media{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM download_tokens")
	db.Exec("DELETE FROM purchased_files")
	db.Exec("DELETE FROM orders")
	db.Exec("DELETE FROM media")
	db.Exec("DELETE FROM digital_files")
	db.Exec("DELETE FROM products")
	db.Exec("DELETE FROM shops")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@digishop.dev",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal(err)
	}

	customerHash, _ := bcrypt.GenerateFromPassword([]byte("customer123"), bcrypt.DefaultCost)
	customer := domain.User{
		Email:        "reader@digishop.dev",
		PasswordHash: string(customerHash),
		Role:         domain.RoleCustomer,
		Name:         "Demo Reader",
	}
	if err := db.Create(&customer).Error; err != nil {
		log.Fatal(err)
	}

	// ================== CATALOG ==================
	log.Println("Creating shop and products...")

	shop := domain.Shop{Name: "Ink & Bytes", Slug: "ink-and-bytes"}
	if err := db.Create(&shop).Error; err != nil {
		log.Fatal(err)
	}

	zero := 0.0
	products := []domain.Product{
		{
			ShopID:      shop.ID,
			Name:        "Go for Grownups",
			Slug:        "go-for-grownups",
			Description: "A practical e-book about writing boring, reliable Go.",
			Price:       12.50,
			ProductType: domain.ProductDigital,
			DigitalFile: &domain.DigitalFile{
				AttachmentID: 110,
				URL:          "https://cdn.digishop.dev/files/go-for-grownups.pdf",
				FileName:     "go-for-grownups.pdf",
			},
		},
		{
			ShopID:      shop.ID,
			Name:        "SQL Cheatsheets",
			Slug:        "sql-cheatsheets",
			Description: "Printable cheatsheets for the queries everyone forgets.",
			Price:       19.99,
			SalePrice:   &zero,
			ProductType: domain.ProductDigital,
			DigitalFile: &domain.DigitalFile{
				AttachmentID: 120,
				URL:          "https://cdn.digishop.dev/files/sql-cheatsheets.zip",
				FileName:     "sql-cheatsheets.zip",
			},
		},
		{
			ShopID:      shop.ID,
			Name:        "Starter Sampler",
			Slug:        "starter-sampler",
			Description: "Free sample chapter.",
			Price:       0,
			ProductType: domain.ProductDigital,
			DigitalFile: &domain.DigitalFile{
				AttachmentID: 130,
				URL:          "https://cdn.digishop.dev/files/sampler.pdf",
				FileName:     "sampler.pdf",
			},
		},
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			log.Fatal(err)
		}
	}

	log.Println("Creating media records...")
	mediaRows := []domain.Media{
		{ModelID: 110, FileName: "go-for-grownups.pdf", MimeType: "application/pdf", Size: 2_482_112},
		{ModelID: 120, FileName: "sql-cheatsheets.zip", MimeType: "application/zip", Size: 910_338},
		{ModelID: 130, FileName: "sampler.pdf", MimeType: "application/pdf", Size: 301_557},
	}
	for i := range mediaRows {
		mediaRows[i].DiskName = uuid.New().String()
		if err := db.Create(&mediaRows[i]).Error; err != nil {
			log.Fatal(err)
		}
	}

	// ================== ORDERS ==================
	log.Println("Creating a completed order with purchased files...")

	order := domain.Order{
		TrackingNumber: uuid.New().String(),
		CustomerID:     customer.ID,
		Status:         domain.OrderCompleted,
		Total:          12.50,
	}
	if err := db.Create(&order).Error; err != nil {
		log.Fatal(err)
	}

	purchased := domain.PurchasedFile{
		CustomerID:    customer.ID,
		OrderID:       order.ID,
		DigitalFileID: products[0].DigitalFile.ID,
	}
	if err := db.Create(&purchased).Error; err != nil {
		log.Fatal(err)
	}

	log.Println("Seed complete.")
	log.Printf("customer login: reader@digishop.dev / customer123 (owns %q)", products[0].Name)
}
