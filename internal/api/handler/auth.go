package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"doubtroom/backend/internal/config"
	"doubtroom/backend/internal/models"
	"doubtroom/backend/internal/storage"

	"github.com/gin-gonic/gin"

	jwt "github.com/golang-jwt/jwt/v5"
)

var errInvalidToken = errors.New("invalid or expired token")

// generateJWT issues a signed token carrying the user's ID.
func (h *Handler) generateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(config.TokenTTL).Unix(),
		"iss":     config.JWTIssuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}

// resolveIdentity verifies a bearer token and returns the live account behind
// it. It fails for missing/malformed/expired tokens, unknown users and
// deactivated accounts.
func (h *Handler) resolveIdentity(tokenString string) (*models.User, error) {
	if tokenString == "" {
		return nil, errInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return h.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, errInvalidToken
	}

	user, err := h.Storage.GetUserByID(userID)
	if err != nil {
		return nil, errors.New("user not found")
	}
	if !user.IsActive {
		return nil, errors.New("user account is deactivated")
	}
	return user, nil
}

// bearerToken extracts the token from the Authorization header, falling back
// to the "token" query parameter for websocket clients.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return c.Query("token")
}

// AuthRequired is the gin middleware guarding all protected routes. The
// resolved user is stored in the request context under "user".
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.resolveIdentity(bearerToken(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set("user", user)
		c.Next()
	}
}

// currentUser pulls the resolved user out of the gin context.
func currentUser(c *gin.Context) *models.User {
	return c.MustGet("user").(*models.User)
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

// Register creates a new account and returns a token.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Role != "" && req.Role != models.RoleStudent && req.Role != models.RoleMentor {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be student or mentor"})
		return
	}

	if _, err := h.Storage.GetUserByEmail(req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists with this email"})
		return
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		IsActive: true,
		LastSeen: time.Now(),
	}
	if err := user.SetPassword(req.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	if err := h.Storage.SaveUser(user); err != nil {
		log.Printf("ERROR: Failed to register user %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	token, err := h.generateJWT(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and returns a token. Rate limited per client IP.
func (h *Handler) Login(c *gin.Context) {
	count, err := h.Storage.CountRequest("ratelimit:login:" + c.ClientIP())
	if err != nil {
		log.Printf("WARNING: Rate limit check failed: %v", err)
	} else if count > config.LoginRateLimit {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many login attempts, try again later"})
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide email and password"})
		return
	}

	user, err := h.Storage.GetUserByEmail(req.Email)
	if err != nil {
		if !errors.Is(err, storage.ErrUserNotFound) {
			log.Printf("ERROR: Login lookup failed for %s: %v", req.Email, err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !user.ComparePassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	user.LastSeen = time.Now()
	if err := h.Storage.SaveUser(user); err != nil {
		log.Printf("WARNING: Failed to update last seen for %s: %v", user.ID, err)
	}

	token, err := h.generateJWT(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": currentUser(c)})
}
