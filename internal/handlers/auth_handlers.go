package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/fitfuel/fitfuel-golang/internal/auth"
	"github.com/fitfuel/fitfuel-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Auth Handlers ---
//

// RegisterInput holds the fields we accept from a new user. Kept apart
// from models.User so a request can never set its own id or role.
type RegisterInput struct {
	FullName    string `json:"fullName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// Register is the handler for POST /v1/auth/register
func (h *Handlers) Register(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// 2. --- Hash the Password ---
	var password models.Password
	if err := password.Set(input.Password); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	// 3. --- Save to Database ---
	now := time.Now()
	query := `
		INSERT INTO users (role, status, email, password_hash, full_name, phone_number, created_at, updated_at, version)
		VALUES ('client', 'active', ?, ?, ?, ?, ?, ?, 1)`
	result, err := h.DB.Exec(query, input.Email, password.Hash, input.FullName, input.PhoneNumber, now, now)
	if err != nil {
		// A duplicate email violates the unique index.
		respondError(c, http.StatusBadRequest, "Email already registered")
		return
	}
	userID, err := result.LastInsertId()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to get new user ID")
		return
	}

	// 4. --- Issue Token ---
	token, err := auth.GenerateToken(userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondOK(c, http.StatusCreated, "Registered successfully", gin.H{
		"userId":              userID,
		"email":               input.Email,
		"token":               token,
		"onboardingCompleted": false,
	})
}

// LoginInput accepts the user's email as the identifier.
type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// Login is the handler for POST /v1/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Both identifier and password are required")
		return
	}

	// 1. --- Find the User ---
	var user models.User
	query := "SELECT id, role, email, password_hash FROM users WHERE email = ?"
	err := h.DB.QueryRow(query, input.Identifier).Scan(&user.ID, &user.Role, &user.Email, &user.PasswordHash)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	// 2. --- Check the Password ---
	password := models.Password{Hash: user.PasswordHash}
	match, err := password.Matches(input.Password)
	if err != nil || !match {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// 3. --- Issue Token ---
	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	// Onboarding is complete once a profile row exists.
	var profileCount int
	_ = h.DB.QueryRow("SELECT COUNT(*) FROM user_profiles WHERE user_id = ?", user.ID).Scan(&profileCount)

	respondOK(c, http.StatusOK, "Logged in", gin.H{
		"userId":              user.ID,
		"role":                user.Role,
		"token":               token,
		"onboardingCompleted": profileCount > 0,
	})
}
