package api

import (
	"errors"
	"net/http"

	reqdto "lead-ledger/internal/handler/dto/request"
	resdto "lead-ledger/internal/handler/dto/response"
	"lead-ledger/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authCommands commands.AuthCommands
}

func NewAuthHandler(authCommands commands.AuthCommands) *AuthHandler {
	return &AuthHandler{
		authCommands: authCommands,
	}
}

// @Summary Dealer login
// @Description Authenticate a dealer and return a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login credentials"
// @Success 200 {object} resdto.AuthResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.authCommands.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, commands.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid email or password",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromAuthResult(result))
}

// @Summary Dealer registration
// @Description Create a dealer account with the signup credit bonus
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.RegisterRequest true "Registration details"
// @Success 201 {object} resdto.AuthResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req reqdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.authCommands.Register(c.Request.Context(), req.Email, req.Password, req.BusinessName)
	if err != nil {
		if errors.Is(err, commands.ErrEmailAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Email is already registered",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusCreated, resdto.FromAuthResult(result))
}
