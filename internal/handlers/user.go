package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/lamdv/socialverse/backend/internal/middleware"
	"github.com/lamdv/socialverse/backend/internal/models"
	"github.com/lamdv/socialverse/backend/internal/repositories"
	"github.com/lamdv/socialverse/backend/pkg/logging"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const usersPerPage = 20

// UserHandler handles user directory and profile HTTP requests
type UserHandler struct {
	userRepository repositories.UserRepository
	postRepository repositories.PostRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository) *UserHandler {
	return &UserHandler{
		userRepository: userRepo,
		postRepository: postRepo,
	}
}

// RegisterUserRoutes registers user-related routes behind the guards
func (h *UserHandler) RegisterUserRoutes(e *echo.Echo, guard *middleware.Guard) {
	e.GET("/users", h.GetAll, guard.RequireAdmin())
	e.GET("/users/count", h.Count, guard.RequireAdmin())
	e.GET("/users/about/:id", h.About, guard.RequireUser())
	e.PUT("/users/update-profile", h.UpdateProfile, guard.RequireUser())
}

// GetAll lists users, 20 per page.
func (h *UserHandler) GetAll(c echo.Context) error {
	page, _ := strconv.ParseInt(c.QueryParam("page"), 10, 64)
	if page < 1 {
		page = 1
	}

	users, err := h.userRepository.ListUsers(c.Request().Context(), (page-1)*usersPerPage, usersPerPage)
	if err != nil {
		return internalError(c, err)
	}
	return respondData(c, users)
}

// Count returns the total number of users.
func (h *UserHandler) Count(c echo.Context) error {
	n, err := h.userRepository.CountUsers(c.Request().Context())
	if err != nil {
		return internalError(c, err)
	}
	return respondData(c, n)
}

// About returns the public profile of a user; ":id" may be "me".
func (h *UserHandler) About(c echo.Context) error {
	idParam := c.Param("id")

	var id primitive.ObjectID
	if idParam == "me" {
		authUser, ok := middleware.AuthUserFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authorized."})
		}
		id = authUser.ID
	} else {
		var err error
		id, err = primitive.ObjectIDFromHex(idParam)
		if err != nil {
			return respondError(c, http.StatusBadRequest, "INVALID_ID")
		}
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), id)
	if err != nil {
		if err == repositories.ErrNotFound {
			return respondError(c, http.StatusBadRequest, "USER_NOT_FOUND")
		}
		return internalError(c, err)
	}
	return respondData(c, user.Public())
}

// UpdateProfile updates the caller's display fields and kicks off a
// best-effort rewrite of the author snapshot cached on their posts. The
// rewrite is fire-and-forget: it runs on its own context and only logs.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	authUser, ok := middleware.AuthUserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authorized."})
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}

	user, err := h.userRepository.UpdateProfile(c.Request().Context(), authUser.ID, req.FullName, req.Avatar)
	if err != nil {
		if err == repositories.ErrNotFound {
			return respondError(c, http.StatusBadRequest, "USER_NOT_FOUND")
		}
		return internalError(c, err)
	}

	if req.FullName != "" || req.Avatar != "" {
		logger := logging.FromContext(c.Request().Context())
		by := models.ByUser{ID: user.ID, Username: user.Username, FullName: user.FullName, Avatar: user.Avatar}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			n, err := h.postRepository.UpdateAuthorSnapshot(ctx, user.ID, by)
			if err != nil {
				logger.Error("author snapshot rewrite failed", "user", user.ID.Hex(), "error", err)
				return
			}
			logger.Info("author snapshot rewritten", "user", user.ID.Hex(), "posts", n)
		}()
	}

	return respondData(c, user.Public())
}
