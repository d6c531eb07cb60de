package accountControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storelabs/storefront-api/apperrors"
	"github.com/storelabs/storefront-api/auth"
	"github.com/storelabs/storefront-api/models"
)

type RegisterInput struct {
	Username  string `json:"username" binding:"required,min=3,max=30"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required,max=30"`
	LastName  string `json:"last_name" binding:"required,max=30"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /auth/register
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid input: "+err.Error()))
			return
		}

		hash, err := auth.HashPassword(input.Password)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		user := models.User{
			ID:           uuid.NewString(),
			Username:     input.Username,
			Email:        input.Email,
			PasswordHash: hash,
			FirstName:    input.FirstName,
			LastName:     input.LastName,
		}
		if err := db.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				apperrors.Respond(c, apperrors.Validation("username or email already taken"))
				return
			}
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Account created successfully", "user": user})
	}
}

// POST /auth/login
func LoginHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid input: "+err.Error()))
			return
		}

		var user models.User
		err := db.Where("username = ?", input.Username).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !auth.CheckPassword(user.PasswordHash, input.Password)) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		token, err := auth.GenerateToken(user.ID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}
