package handlers

import (
	"net/http"

	"github.com/lamdv/socialverse/backend/internal/middleware"
	"github.com/lamdv/socialverse/backend/internal/models"
	"github.com/lamdv/socialverse/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryHandler handles HTTP requests related to categories
type CategoryHandler struct {
	categoryRepository repositories.CategoryRepository
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryRepo repositories.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{categoryRepository: categoryRepo}
}

// RegisterCategoryRoutes registers category routes. Reads are public;
// mutations are admin-only.
func (h *CategoryHandler) RegisterCategoryRoutes(e *echo.Echo, guard *middleware.Guard) {
	e.GET("/category/:id", h.GetCategories)
	e.POST("/category", h.Create, guard.RequireAdmin())
	e.PUT("/category/:id", h.Update, guard.RequireAdmin())
	e.DELETE("/category/:id", h.Remove, guard.RequireAdmin())
}

// GetCategories lists categories created by the user in ":id"; "0" lists
// all of them.
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	idParam := c.Param("id")

	var createdBy primitive.ObjectID
	if idParam != "" && idParam != "0" {
		var err error
		createdBy, err = primitive.ObjectIDFromHex(idParam)
		if err != nil {
			return respondError(c, http.StatusBadRequest, "INVALID_ID")
		}
	}

	categories, err := h.categoryRepository.GetCategories(c.Request().Context(), createdBy)
	if err != nil {
		return internalError(c, err)
	}
	return respondData(c, categories)
}

// Create creates a category stamped with the caller's identity.
func (h *CategoryHandler) Create(c echo.Context) error {
	authUser, ok := middleware.AuthUserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authorized."})
	}

	var req models.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "MISSING_FIELD: name")
	}

	category := &models.Category{
		Name:      req.Name,
		Tags:      req.Tags,
		CreatedBy: authUser.ID,
	}
	if err := h.categoryRepository.CreateCategory(c.Request().Context(), category); err != nil {
		return internalError(c, err)
	}
	return respondData(c, category)
}

// Update renames or retags a category.
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_ID")
	}

	var req models.UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}

	category, err := h.categoryRepository.UpdateCategory(c.Request().Context(), id, req.Name, req.Tags)
	if err != nil {
		if err == repositories.ErrNotFound {
			return respondError(c, http.StatusBadRequest, "CATEGORY_NOT_FOUND")
		}
		return internalError(c, err)
	}
	return respondData(c, category)
}

// Remove deletes a category.
func (h *CategoryHandler) Remove(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_ID")
	}

	if err := h.categoryRepository.DeleteCategory(c.Request().Context(), id); err != nil {
		if err == repositories.ErrNotFound {
			return respondError(c, http.StatusBadRequest, "CATEGORY_NOT_FOUND")
		}
		return internalError(c, err)
	}
	return respondData(c, true)
}
