package services

import (
	"ladle/internal/db"
	"ladle/internal/models"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the global handle at a fresh in-memory SQLite database.
// One connection only: each pooled connection would otherwise get its own
// private :memory: database.
func setupTestDB(t *testing.T) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrap test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	db.DB = gdb
}

func createTestUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := models.User{
		Username:    email,
		Email:       email,
		Password:    "x",
		IsActivated: true,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return &user
}

func createTestRecipe(t *testing.T, owner *models.User, title string) *models.Recipe {
	t.Helper()
	cuisine := models.Cuisine{Name: "test-" + title}
	if err := db.DB.Create(&cuisine).Error; err != nil {
		t.Fatalf("create test cuisine: %v", err)
	}
	recipe := models.Recipe{
		Rid:         title,
		UserID:      owner.ID,
		CuisineID:   cuisine.ID,
		Title:       title,
		Ingredients: "eggs",
		Steps:       "cook",
	}
	if err := db.DB.Create(&recipe).Error; err != nil {
		t.Fatalf("create test recipe: %v", err)
	}
	return &recipe
}

func countLikes(t *testing.T, recipeID uint) int64 {
	t.Helper()
	var n int64
	if err := db.DB.Model(&models.Like{}).Where("recipe_id = ?", recipeID).Count(&n).Error; err != nil {
		t.Fatalf("count likes: %v", err)
	}
	return n
}

func countComments(t *testing.T, recipeID uint) int64 {
	t.Helper()
	var n int64
	if err := db.DB.Model(&models.Comment{}).Where("recipe_id = ?", recipeID).Count(&n).Error; err != nil {
		t.Fatalf("count comments: %v", err)
	}
	return n
}
