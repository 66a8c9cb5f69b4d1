package db

import (
	"ladle/internal/models"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=ladle port=5432 sslmode=disable TimeZone=UTC"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	// Seed initial cuisines
	seedCuisines()
}

// Migrate runs auto-migration for every model. Split out of Init so tests
// can run it against their own database handle.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Cuisine{},
		&models.Recipe{},
		&models.Comment{},
		&models.Like{},
		&models.Favorite{},
		&models.Notification{},
	)
}

func seedCuisines() {
	var count int64
	DB.Model(&models.Cuisine{}).Count(&count)
	if count > 0 {
		log.Println("Cuisines already seeded, skipping")
		return
	}

	cuisines := []models.Cuisine{
		{Name: "家常菜", Description: "Everyday home cooking"},
		{Name: "烘焙", Description: "Breads, cakes and pastry"},
		{Name: "快手菜", Description: "Ready in 30 minutes or less"},
		{Name: "汤羹", Description: "Soups and stews"},
		{Name: "素食", Description: "Vegetarian and vegan dishes"},
	}

	for _, cuisine := range cuisines {
		if err := DB.Create(&cuisine).Error; err != nil {
			log.Printf("Failed to create cuisine %s: %v", cuisine.Name, err)
		}
	}
	log.Println("Initial cuisines created successfully")
}
