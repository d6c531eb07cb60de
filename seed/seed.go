// Package seed populates the database with sample catalog data and an
// admin account so a fresh install has something to browse.
package seed

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/storelabs/storefront-api/auth"
	"github.com/storelabs/storefront-api/models"
)

type productSeed struct {
	Name        string
	Category    string
	Price       string
	Description string
	Stock       int
}

var categorySeeds = []models.Category{
	{Name: "Electronics", Description: "Latest electronic gadgets and devices"},
	{Name: "Clothing", Description: "Fashionable clothing for all ages"},
	{Name: "Books", Description: "Educational and entertainment books"},
	{Name: "Home & Garden", Description: "Everything for your home and garden"},
	{Name: "Sports", Description: "Sports equipment and accessories"},
}

var productSeeds = []productSeed{
	{"Smartphone X1", "Electronics", "599.99", "Latest smartphone with advanced features, high-resolution camera, and long battery life.", 50},
	{"Wireless Headphones", "Electronics", "89.99", "Premium wireless headphones with noise cancellation and 30-hour battery life.", 100},
	{"Casual T-Shirt", "Clothing", "24.99", "Comfortable cotton t-shirt available in multiple colors and sizes.", 200},
	{"Denim Jeans", "Clothing", "59.99", "Classic denim jeans with perfect fit and durability.", 150},
	{"Python Programming Book", "Books", "39.99", "Comprehensive guide to Python programming for beginners and advanced users.", 75},
	{"Fiction Novel Collection", "Books", "29.99", "Bestselling fiction novels from top authors around the world.", 120},
	{"Garden Tool Set", "Home & Garden", "79.99", "Complete set of essential garden tools for professional and home use.", 60},
	{"Indoor Plant Pot", "Home & Garden", "19.99", "Beautiful ceramic plant pots for indoor plants and decoration.", 200},
	{"Basketball", "Sports", "34.99", "Official size basketball perfect for indoor and outdoor play.", 80},
	{"Yoga Mat", "Sports", "44.99", "Premium yoga mat with excellent grip and cushioning for comfortable practice.", 100},
}

// Run creates the sample categories, products and the admin user.
// Existing rows are left alone, so reruns are safe.
func Run(db *gorm.DB, logger *zap.Logger) error {
	categories := make(map[string]models.Category, len(categorySeeds))
	for _, c := range categorySeeds {
		category := c
		if err := db.Where("name = ?", category.Name).
			FirstOrCreate(&category).Error; err != nil {
			return err
		}
		categories[category.Name] = category
	}

	for _, p := range productSeeds {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return err
		}
		product := models.Product{
			Name:        p.Name,
			CategoryID:  categories[p.Category].ID,
			Price:       price,
			Description: p.Description,
			Stock:       p.Stock,
			IsActive:    true,
		}
		if err := db.Where("name = ?", product.Name).
			FirstOrCreate(&product).Error; err != nil {
			return err
		}
	}

	var adminCount int64
	if err := db.Model(&models.User{}).
		Where("username = ?", "admin").Count(&adminCount).Error; err != nil {
		return err
	}
	if adminCount == 0 {
		hash, err := auth.HashPassword("admin123")
		if err != nil {
			return err
		}
		admin := models.User{
			ID:           uuid.NewString(),
			Username:     "admin",
			Email:        "admin@shophub.com",
			PasswordHash: hash,
			FirstName:    "Admin",
			LastName:     "User",
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
		logger.Info("created admin user", zap.String("username", admin.Username))
	}

	logger.Info("sample data created",
		zap.Int("categories", len(categorySeeds)),
		zap.Int("products", len(productSeeds)))
	return nil
}
