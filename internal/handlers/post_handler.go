package handlers

import (
	"net/http"
	"strconv"

	"github.com/lamdv/socialverse/backend/internal/middleware"
	"github.com/lamdv/socialverse/backend/internal/models"
	"github.com/lamdv/socialverse/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const postsPerPage = 10

// PostHandler handles HTTP requests related to posts and comments
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(e *echo.Echo, guard *middleware.Guard) {
	e.GET("/posts", h.GetPosts)
	e.GET("/post/:id", h.GetPost)
	e.GET("/comments/:id", h.GetComments)
	e.POST("/post", h.Create, guard.RequireUser())
	e.PUT("/post/:id", h.Update, guard.RequireUser())
	e.DELETE("/post/:id", h.Remove, guard.RequireUser())
	e.PUT("/post/react/:id", h.React, guard.RequireUser())
	e.PUT("/post/un-react/:id", h.UnReact, guard.RequireUser())
}

// Create creates a new post (or comment, when "of" is set) authored by the
// caller, with the author snapshot denormalized onto the document.
func (h *PostHandler) Create(c echo.Context) error {
	authUser, ok := middleware.AuthUserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authorized."})
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}

	var of *primitive.ObjectID
	if req.Of != "" {
		parent, err := primitive.ObjectIDFromHex(req.Of)
		if err != nil {
			return respondError(c, http.StatusBadRequest, "INVALID_ID")
		}
		of = &parent
	}

	categories := make([]primitive.ObjectID, 0, len(req.Categories))
	for _, raw := range req.Categories {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return respondError(c, http.StatusBadRequest, "INVALID_ID")
		}
		categories = append(categories, id)
	}

	ctx := c.Request().Context()
	author, err := h.userRepository.GetUserByID(ctx, authUser.ID)
	if err != nil {
		return internalError(c, err)
	}

	post := &models.Post{
		Type:       req.Type,
		Text:       req.Text,
		TextVi:     req.TextVi,
		TextEn:     req.TextEn,
		Audio:      req.Audio,
		Photos:     req.Photos,
		Videos:     req.Videos,
		Tags:       req.Tags,
		Categories: categories,
		CreatedBy:  author.ID,
		ByUser: models.ByUser{
			ID:       author.ID,
			Username: author.Username,
			FullName: author.FullName,
			Avatar:   author.Avatar,
		},
		Of: of,
	}
	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		return internalError(c, err)
	}

	post.CountReacts()
	return respondData(c, post)
}

// GetPosts lists top-level posts of a user, optionally filtered by category.
// Query: uid (required), cid ("0" or empty means no filter), p (page).
func (h *PostHandler) GetPosts(c echo.Context) error {
	uid := c.QueryParam("uid")
	if uid == "" {
		return respondError(c, http.StatusBadRequest, "MISSING_PARAMETER: uid")
	}
	userID, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_ID")
	}

	var categoryID *primitive.ObjectID
	if cid := c.QueryParam("cid"); cid != "" && cid != "0" {
		id, err := primitive.ObjectIDFromHex(cid)
		if err != nil {
			return respondError(c, http.StatusBadRequest, "INVALID_ID")
		}
		categoryID = &id
	}

	page, _ := strconv.ParseInt(c.QueryParam("p"), 10, 64)
	if page < 1 {
		page = 1
	}

	posts, err := h.postRepository.GetPosts(c.Request().Context(), userID, categoryID, (page-1)*postsPerPage, postsPerPage)
	if err != nil {
		return internalError(c, err)
	}

	for i := range posts {
		posts[i].CountReacts()
	}
	return respondData(c, posts)
}

// GetPost retrieves a single post by ID.
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_ID")
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), id)
	if err != nil {
		if err == repositories.ErrNotFound {
			return respondError(c, http.StatusBadRequest, "POST_NOT_FOUND")
		}
		return internalError(c, err)
	}

	post.CountReacts()
	return respondData(c, post)
}

// GetComments lists the paginated comments of a post.
func (h *PostHandler) GetComments(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_ID")
	}

	page, _ := strconv.ParseInt(c.QueryParam("page"), 10, 64)
	if page < 1 {
		page = 1
	}

	comments, err := h.postRepository.GetComments(c.Request().Context(), id, (page-1)*postsPerPage, postsPerPage)
	if err != nil {
		return internalError(c, err)
	}

	for i := range comments {
		comments[i].CountReacts()
	}
	return respondData(c, comments)
}

// Update mutates a post's content fields. Owner only.
func (h *PostHandler) Update(c echo.Context) error {
	authUser, ok := middleware.AuthUserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authorized."})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_ID")
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, id)
	if err != nil {
		if err == repositories.ErrNotFound {
			return respondError(c, http.StatusBadRequest, "POST_NOT_FOUND")
		}
		return internalError(c, err)
	}

	if post.CreatedBy != authUser.ID {
		return respondError(c, http.StatusForbidden, "FORBIDDEN")
	}

	if req.Type != "" {
		post.Type = req.Type
	}
	if req.Text != "" {
		post.Text = req.Text
	}
	if req.TextVi != "" {
		post.TextVi = req.TextVi
	}
	if req.TextEn != "" {
		post.TextEn = req.TextEn
	}
	if req.Audio != "" {
		post.Audio = req.Audio
	}
	if req.Photos != nil {
		post.Photos = req.Photos
	}
	if req.Videos != nil {
		post.Videos = req.Videos
	}
	if req.Tags != nil {
		post.Tags = req.Tags
	}
	if req.Categories != nil {
		categories := make([]primitive.ObjectID, 0, len(req.Categories))
		for _, raw := range req.Categories {
			cid, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				return respondError(c, http.StatusBadRequest, "INVALID_ID")
			}
			categories = append(categories, cid)
		}
		post.Categories = categories
	}

	if err := h.postRepository.UpdatePost(ctx, id, post); err != nil {
		return internalError(c, err)
	}

	post.CountReacts()
	return respondData(c, post)
}

// Remove deletes a post. Owner only.
func (h *PostHandler) Remove(c echo.Context) error {
	authUser, ok := middleware.AuthUserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authorized."})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_ID")
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, id)
	if err != nil {
		if err == repositories.ErrNotFound {
			return respondError(c, http.StatusBadRequest, "POST_NOT_FOUND")
		}
		return internalError(c, err)
	}

	if post.CreatedBy != authUser.ID {
		return respondError(c, http.StatusForbidden, "FORBIDDEN")
	}

	if err := h.postRepository.DeletePost(ctx, id); err != nil {
		return internalError(c, err)
	}
	return respondData(c, true)
}

// React records the caller's reaction on a post. A repeated reaction of the
// same type is a no-op; a different type replaces the previous one.
func (h *PostHandler) React(c echo.Context) error {
	authUser, ok := middleware.AuthUserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authorized."})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_ID")
	}

	reactType := models.ReactType(c.QueryParam("reactType"))
	if !models.ValidReactType(reactType) {
		return respondError(c, http.StatusBadRequest, "INVALID_REACT_TYPE")
	}

	if err := h.postRepository.SetReaction(c.Request().Context(), id, authUser.ID, reactType); err != nil {
		if err == repositories.ErrNotFound {
			return respondError(c, http.StatusBadRequest, "POST_NOT_FOUND")
		}
		return internalError(c, err)
	}
	return respondData(c, true)
}

// UnReact removes the caller's reaction from a post, if any.
func (h *PostHandler) UnReact(c echo.Context) error {
	authUser, ok := middleware.AuthUserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authorized."})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_ID")
	}

	if err := h.postRepository.RemoveReaction(c.Request().Context(), id, authUser.ID); err != nil {
		if err == repositories.ErrNotFound {
			return respondError(c, http.StatusBadRequest, "POST_NOT_FOUND")
		}
		return internalError(c, err)
	}
	return respondData(c, true)
}
