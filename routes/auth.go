// routes/auth.go
package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"realestate-api/db"
	"realestate-api/middleware"
	"realestate-api/models"
)

// AuthRoutes sets up the authentication routes /auth/register, /auth/login, etc.
func AuthRoutes(router *gin.Engine) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", Register())
		auth.POST("/login", Login())
		auth.POST("/refresh", RefreshToken())
	}
	session := router.Group("/auth")
	session.Use(middleware.AuthMiddleware())
	{
		session.GET("/me", Me())
		session.POST("/logout", Logout())
	}
}

// Register handles new user registration.
func Register() gin.HandlerFunc {
	return func(c *gin.Context) {
		var registerRequest struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required,min=6"`
			FullName string `json:"full_name"`
			Phone    string `json:"phone"`
		}

		if err := c.ShouldBindJSON(&registerRequest); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registerRequest.Password), bcrypt.DefaultCost)
		if err != nil {
			slog.Error("hashing password", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process registration"})
			return
		}

		profile := models.Profile{
			Email:    registerRequest.Email,
			Password: string(hashedPassword),
			FullName: registerRequest.FullName,
			Phone:    registerRequest.Phone,
		}

		DB := db.GetDB()
		if result := DB.Create(&profile); result.Error != nil {
			slog.Error("creating profile", "err", result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account. Email might already be registered."})
			return
		}

		accessToken, refreshToken, err := generateTokens(profile.ID)
		if err != nil {
			slog.Error("generating tokens", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize registration"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":       "Account created successfully",
			"profile":       profile,
			"access_token":  accessToken,
			"refresh_token": refreshToken,
		})
	}
}

// Login handles user login requests.
func Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}

		if err := c.ShouldBindJSON(&loginRequest); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		DB := db.GetDB()

		var profile models.Profile
		result := DB.Where("email = ?", loginRequest.Email).First(&profile)
		if result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			} else {
				slog.Error("login lookup", "email", loginRequest.Email, "err", result.Error)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error during login"})
			}
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(loginRequest.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		accessToken, refreshToken, err := generateTokens(profile.ID)
		if err != nil {
			slog.Error("generating tokens", "user_id", profile.ID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate login tokens"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Login successful",
			"profile":       profile,
			"access_token":  accessToken,
			"refresh_token": refreshToken,
		})
	}
}

// RefreshToken handles requests to refresh JWT access tokens using a valid refresh token.
func RefreshToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		var refreshRequest struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}

		if err := c.ShouldBindJSON(&refreshRequest); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		jwtSecret := os.Getenv("JWT_SECRET_KEY")
		if jwtSecret == "" {
			slog.Error("JWT_SECRET_KEY environment variable not set")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server configuration error"})
			return
		}

		token, err := jwt.Parse(refreshRequest.RefreshToken, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not process token"})
			return
		}

		if tokenType, ok := claims["type"].(string); !ok || tokenType != "refresh" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token type provided"})
			return
		}

		rawID, _ := claims["user_id"].(string)
		userID, err := uuid.Parse(rawID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token"})
			return
		}

		// Verify user still exists
		DB := db.GetDB()
		var profile models.Profile
		if result := DB.First(&profile, "id = ?", userID); result.Error != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User associated with token not found"})
			return
		}

		newAccessToken, newRefreshToken, err := generateTokens(userID)
		if err != nil {
			slog.Error("generating tokens on refresh", "user_id", userID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate new tokens"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Tokens refreshed successfully",
			"access_token":  newAccessToken,
			"refresh_token": newRefreshToken,
		})
	}
}

// Me reports the session's authentication status and profile.
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)

		DB := db.GetDB()
		var profile models.Profile
		if result := DB.First(&profile, "id = ?", userID); result.Error != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false, "error": "Profile not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"authenticated": true, "profile": profile})
	}
}

// Logout ends the session. Tokens are stateless, so this only confirms
// the sign-out; clients drop their stored token pair.
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
	}
}

// generateTokens is a helper function to create new JWT access and refresh tokens.
func generateTokens(userID uuid.UUID) (string, string, error) {
	jwtSecret := os.Getenv("JWT_SECRET_KEY")
	if jwtSecret == "" {
		return "", "", fmt.Errorf("JWT secret key not configured")
	}
	secretKeyBytes := []byte(jwtSecret)

	// Access token (shorter lifespan)
	accessTokenClaims := jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(time.Hour * 1).Unix(),
		"iat":     time.Now().Unix(),
		"type":    "access",
	}
	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessTokenClaims)
	accessTokenString, err := accessToken.SignedString(secretKeyBytes)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}

	// Refresh token (longer lifespan)
	refreshTokenClaims := jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(time.Hour * 24 * 7).Unix(),
		"iat":     time.Now().Unix(),
		"type":    "refresh",
	}
	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshTokenClaims)
	refreshTokenString, err := refreshToken.SignedString(secretKeyBytes)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return accessTokenString, refreshTokenString, nil
}
