package handlers

import (
	"bytes"
	"encoding/json"
	"ladle/internal/db"
	"ladle/internal/models"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHandlerDB(t *testing.T) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	// A pooled second connection would get its own empty :memory: database
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

func seedRecipeWithComment(t *testing.T, email string) *models.Recipe {
	t.Helper()

	user := models.User{
		Username:    "tester",
		Email:       email,
		Password:    "x",
		IsActivated: true,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	cuisine := models.Cuisine{Name: "fusion"}
	if err := db.DB.Create(&cuisine).Error; err != nil {
		t.Fatalf("create cuisine: %v", err)
	}

	recipe := models.Recipe{
		Rid:         "testrid1",
		UserID:      user.ID,
		CuisineID:   cuisine.ID,
		Title:       "okonomiyaki",
		Ingredients: "cabbage",
		Steps:       "fry",
	}
	if err := db.DB.Create(&recipe).Error; err != nil {
		t.Fatalf("create recipe: %v", err)
	}

	comment := models.Comment{
		Cid:      "testcid1",
		RecipeID: recipe.ID,
		UserID:   user.ID,
		Content:  "looks great",
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}

	return &recipe
}

func TestPublicCommentListHidesAuthorEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	setupHandlerDB(t)
	seedRecipeWithComment(t, "private-address@example.com")

	r := gin.New()
	r.GET("/recipes/:rid/comments", NewCommentHandler().List)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/recipes/testrid1/comments", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if strings.Contains(body, "private-address@example.com") {
		t.Fatalf("author email leaked on a public route: %s", body)
	}
	if strings.Contains(body, `"email"`) {
		t.Fatalf("public comment payload carries an email field: %s", body)
	}
	if !strings.Contains(body, `"username":"tester"`) {
		t.Fatalf("expected the author's display identity in the payload: %s", body)
	}
}

func TestResetPasswordDoesNotRevealAccounts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	setupHandlerDB(t)

	user := models.User{
		Username:   "tester",
		Email:      "known@example.com",
		Password:   "x",
		VerifyCode: "123456",
	}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	r := gin.New()
	r.POST("/auth/reset-password", NewAuthHandler().ResetPassword)

	post := func(email, code string) *httptest.ResponseRecorder {
		payload, _ := json.Marshal(map[string]string{
			"email":    email,
			"code":     code,
			"password": "newpassword",
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/reset-password", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	unknownAccount := post("nobody@example.com", "123456")
	wrongCode := post("known@example.com", "999999")

	// Both failures must be indistinguishable, or the endpoint becomes an
	// account-existence oracle
	if unknownAccount.Code != wrongCode.Code {
		t.Fatalf("status codes differ: unknown=%d wrong-code=%d", unknownAccount.Code, wrongCode.Code)
	}
	if unknownAccount.Body.String() != wrongCode.Body.String() {
		t.Fatalf("bodies differ: unknown=%s wrong-code=%s", unknownAccount.Body.String(), wrongCode.Body.String())
	}

	// The real code still works
	ok := post("known@example.com", "123456")
	if ok.Code != http.StatusOK {
		t.Fatalf("expected 200 for a valid reset, got %d: %s", ok.Code, ok.Body.String())
	}
}
