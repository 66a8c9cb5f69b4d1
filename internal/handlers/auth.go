package handlers

import (
	"ladle/internal/db"
	"ladle/internal/models"
	"ladle/internal/services"
	"ladle/internal/utils"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	mailService    *services.MailService
	captchaService *services.CaptchaService
}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{
		mailService:    services.NewMailService(),
		captchaService: services.NewCaptchaService(),
	}
}

// Captcha issues a math problem and stores the answer in the session
// (GET /auth/captcha).
func (h *AuthHandler) Captcha(c *gin.Context) {
	question, answer := h.captchaService.GenerateMathProblem()
	session := sessions.Default(c)
	session.Set("captcha_answer", answer)
	session.Save()
	c.JSON(http.StatusOK, gin.H{"captcha": question})
}

// createUser persists a new account with a hashed password.
func (h *AuthHandler) createUser(username, fullName, email, password string) (*models.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username: username,
		FullName: fullName,
		Email:    email,
		Password: hash,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

type signupRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Captcha  string `json:"captcha"`
}

// Signup registers a new account and mails the activation code
// (POST /auth/signup).
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	session := sessions.Default(c)
	expectedAnswer, ok := session.Get("captcha_answer").(int)
	if !ok || utils.StringToInt(req.Captcha) != expectedAnswer {
		Fail(c, http.StatusBadRequest, "wrong captcha answer")
		return
	}
	// Clear captcha after use
	session.Delete("captcha_answer")
	session.Save()

	// Username defaults to the mailbox name
	parts := strings.Split(req.Email, "@")
	if len(parts) != 2 || parts[0] == "" {
		Fail(c, http.StatusBadRequest, "invalid email address")
		return
	}
	username := parts[0]

	if len(req.Password) < 6 {
		Fail(c, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	user, err := h.createUser(username, req.FullName, req.Email, req.Password)
	if err != nil {
		Fail(c, http.StatusConflict, "email already registered")
		return
	}

	code := utils.GenerateRandomCode(6)
	user.VerifyCode = code
	db.DB.Save(user)
	h.mailService.SendWelcomeEmail(req.Email, code)

	c.JSON(http.StatusCreated, gin.H{
		"message": "account created, activation code sent by email",
	})
}

type activateRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Activate verifies the mailed code and logs the user in
// (POST /auth/activate).
func (h *AuthHandler) Activate(c *gin.Context) {
	var req activateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		Fail(c, http.StatusBadRequest, "unknown account")
		return
	}

	if user.IsActivated {
		c.JSON(http.StatusOK, gin.H{"message": "account already activated"})
		return
	}

	if user.VerifyCode == "" || user.VerifyCode != req.Code {
		Fail(c, http.StatusBadRequest, "wrong activation code")
		return
	}

	user.IsActivated = true
	user.VerifyCode = ""
	db.DB.Save(&user)

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"message": "account activated", "user": ownerView(&user)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login starts a session (POST /auth/login).
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		Fail(c, http.StatusUnauthorized, "wrong email or password")
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		Fail(c, http.StatusUnauthorized, "wrong email or password")
		return
	}

	if !user.IsActivated {
		Fail(c, http.StatusUnauthorized, "account not activated, enter the activation code")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"user": ownerView(&user)})
}

// Logout clears the session (POST /auth/logout).
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword mails a reset code (POST /auth/forgot-password). The
// response does not reveal whether the account exists.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", req.Email).First(&user).Error; err == nil {
		code := utils.GenerateRandomCode(6)
		user.VerifyCode = code
		db.DB.Save(&user)
		h.mailService.SendPasswordResetEmail(req.Email, code)
	}

	c.JSON(http.StatusOK, gin.H{"message": "if the account exists, a reset code has been sent"})
}

type resetPasswordRequest struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Password string `json:"password"`
}

// ResetPassword sets a new password given a valid reset code
// (POST /auth/reset-password).
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// A missing account answers exactly like a wrong code, matching the
	// no-existence-leak stance of ForgotPassword
	var user models.User
	if err := db.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		Fail(c, http.StatusBadRequest, "wrong or expired reset code")
		return
	}

	if user.VerifyCode == "" || user.VerifyCode != req.Code {
		Fail(c, http.StatusBadRequest, "wrong or expired reset code")
		return
	}

	if len(req.Password) < 6 {
		Fail(c, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		Fail(c, http.StatusInternalServerError, "failed to reset password")
		return
	}
	user.Password = hash
	user.VerifyCode = ""
	db.DB.Save(&user)

	c.JSON(http.StatusOK, gin.H{"message": "password reset, please log in"})
}
