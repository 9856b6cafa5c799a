package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/cafe-ecom/internal/auth"
	"github.com/MikeMC777/cafe-ecom/internal/filter"
	"github.com/MikeMC777/cafe-ecom/internal/httpx"
	"github.com/MikeMC777/cafe-ecom/internal/user"
)

// LoginResponse is the data of a successful login.
// swagger:model LoginResponse
type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      *user.User `json:"user"`
}

func registerRoutes(r *gin.Engine, svc *user.Service, issuer *auth.Issuer) {
	r.POST("/auth/register", registerHandler(svc))
	r.POST("/auth/login", loginHandler(svc, issuer))

	authed := r.Group("/", auth.Middleware(issuer))
	authed.POST("/logout", logoutHandler())
	authed.GET("/profiles", getProfileHandler(svc))
	authed.PATCH("/profiles", updateProfileHandler(svc))

	admin := r.Group("/admin", auth.Middleware(issuer, auth.RoleAdmin))
	admin.GET("/users", listUsersHandler(svc))
	admin.POST("/users", createUserHandler(svc))
	admin.PATCH("/users/:id", updateUserHandler(svc))
	admin.PATCH("/users/:id/reset-password", resetPasswordHandler(svc))
	admin.DELETE("/users/:id", deleteUserHandler(svc))
}

// failUser maps service errors to HTTP statuses.
func failUser(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrNotFound):
		httpx.Fail(c, http.StatusNotFound, "user not found")
	case errors.Is(err, user.ErrAlreadyExist):
		httpx.Fail(c, http.StatusConflict, "email already registered")
	case errors.Is(err, user.ErrMissingFields):
		httpx.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, user.ErrInvalidCredentials):
		httpx.Fail(c, http.StatusUnauthorized, err.Error())
	default:
		httpx.Fail(c, http.StatusInternalServerError, "db error")
	}
}

func registerHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
		u, err := svc.Register(c.Request.Context(), req)
		if err != nil {
			failUser(c, err)
			return
		}
		httpx.Created(c, u)
	}
}

func loginHandler(svc *user.Service, issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
		u, err := svc.Authenticate(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			failUser(c, err)
			return
		}
		tok, exp, err := issuer.Issue(u.ID, u.Role)
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "token error")
			return
		}
		httpx.OK(c, LoginResponse{Token: tok, ExpiresAt: exp, User: u})
	}
}

// logoutHandler exists for the client flow; tokens are stateless and simply
// expire.
func logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		httpx.Message(c, "logged out")
	}
}

func getProfileHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svc.Get(c.Request.Context(), auth.UserID(c))
		if err != nil {
			failUser(c, err)
			return
		}
		httpx.OK(c, u)
	}
}

func updateProfileHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.ProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
		u, err := svc.UpdateProfile(c.Request.Context(), auth.UserID(c), req)
		if err != nil {
			failUser(c, err)
			return
		}
		httpx.OK(c, u)
	}
}

func listUsersHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := filter.PageFrom(c.Request.URL.Query())
		list, err := svc.List(c.Request.Context(), page.Limit, page.Offset())
		if err != nil {
			failUser(c, err)
			return
		}
		httpx.OK(c, list)
	}
}

func createUserHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.AdminUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
		u, err := svc.Create(c.Request.Context(), req)
		if err != nil {
			failUser(c, err)
			return
		}
		httpx.Created(c, u)
	}
}

func updateUserHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.AdminUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
		u, err := svc.AdminUpdate(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			failUser(c, err)
			return
		}
		httpx.OK(c, u)
	}
}

func resetPasswordHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
		if err := svc.ResetPassword(c.Request.Context(), c.Param("id"), req.Password); err != nil {
			failUser(c, err)
			return
		}
		httpx.Message(c, "password reset")
	}
}

func deleteUserHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			failUser(c, err)
			return
		}
		httpx.Message(c, "user deleted")
	}
}
