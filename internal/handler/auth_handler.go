package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reqtrack/internal/middleware"
	"reqtrack/internal/service"
	"reqtrack/pkg/response"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/login", h.Login)
	}
	orgs := router.Group("/api/organizations")
	{
		orgs.POST("/register", h.RegisterOrganization)
		orgs.GET("/me", middleware.RequireAuth(), h.CurrentOrganization)
	}
}

// Login authenticates a user and returns a JWT
// @Summary      Login
// @Description  Authenticates by email and password and returns a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=service.TokenResponse}
// @Failure      401      {object}  response.Response
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, token))
}

// RegisterOrganization creates a tenant with its first admin account
// @Summary      Register organization
// @Description  Creates a new organization and its initial admin user
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RegisterOrganizationRequest  true  "Organization and admin details"
// @Success      201      {object}  response.Response{data=service.RegisterOrganizationResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/organizations/register [post]
func (h *AuthHandler) RegisterOrganization(c *gin.Context) {
	var req service.RegisterOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.authService.RegisterOrganization(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// CurrentOrganization returns the caller's organization
// @Summary      Current organization
// @Description  Returns the organization the authenticated user belongs to
// @Tags         organizations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.Organization}
// @Failure      401  {object}  response.Response
// @Router       /api/organizations/me [get]
func (h *AuthHandler) CurrentOrganization(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing authentication"))
		return
	}

	org, err := h.authService.CurrentOrganization(c.Request.Context(), actor)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, org))
}
