package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/lamdv/socialverse/backend/internal/models"
	"github.com/lamdv/socialverse/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories backing the handler tests. They reproduce the
// store-side invariants the Mongo implementations rely on (unique email,
// one reaction per user per post).

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = primitive.NewObjectID()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUserByCredentials(_ context.Context, email, passwordHash string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email && u.Password == passwordHash {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ListUsers(_ context.Context, skip, limit int64) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, *u)
	}
	if skip >= int64(len(all)) {
		return nil, nil
	}
	all = all[skip:]
	if limit < int64(len(all)) {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeUserRepo) CountUsers(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Password = passwordHash
	u.ResetPasswordToken = ""
	return nil
}

func (r *fakeUserRepo) UpdateResetPasswordToken(_ context.Context, id primitive.ObjectID, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.ResetPasswordToken = code
	return nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, fullName, avatar string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if fullName != "" {
		u.FullName = fullName
	}
	if avatar != "" {
		u.Avatar = avatar
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) EnsureIndexes(context.Context) error { return nil }

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]*models.Post

	snapshotRewrites chan struct{}
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts:            make(map[primitive.ObjectID]*models.Post),
		snapshotRewrites: make(chan struct{}, 8),
	}
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Reacts == nil {
		post.Reacts = []models.Reaction{}
	}
	clone := *post
	r.posts[post.ID] = &clone
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.posts[id]; ok {
		clone := *p
		clone.Reacts = append([]models.Reaction(nil), p.Reacts...)
		return &clone, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *fakePostRepo) GetPosts(_ context.Context, userID primitive.ObjectID, categoryID *primitive.ObjectID, skip, limit int64) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Post
	for _, p := range r.posts {
		if p.CreatedBy != userID || p.Of != nil {
			continue
		}
		if categoryID != nil && !containsID(p.Categories, *categoryID) {
			continue
		}
		out = append(out, *p)
	}
	return page(out, skip, limit), nil
}

func (r *fakePostRepo) GetComments(_ context.Context, postID primitive.ObjectID, skip, limit int64) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Post
	for _, p := range r.posts {
		if p.Of != nil && *p.Of == postID {
			out = append(out, *p)
		}
	}
	return page(out, skip, limit), nil
}

func (r *fakePostRepo) UpdatePost(_ context.Context, id primitive.ObjectID, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	post.UpdatedAt = time.Now()
	clone := *post
	clone.ID = id
	r.posts[id] = &clone
	return nil
}

func (r *fakePostRepo) DeletePost(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) SetReaction(_ context.Context, postID, userID primitive.ObjectID, reactType models.ReactType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return repositories.ErrNotFound
	}
	for i := range p.Reacts {
		if p.Reacts[i].User == userID {
			p.Reacts[i].Type = reactType
			return nil
		}
	}
	p.Reacts = append(p.Reacts, models.Reaction{User: userID, Type: reactType})
	return nil
}

func (r *fakePostRepo) RemoveReaction(_ context.Context, postID, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return repositories.ErrNotFound
	}
	kept := p.Reacts[:0]
	for _, re := range p.Reacts {
		if re.User != userID {
			kept = append(kept, re)
		}
	}
	p.Reacts = kept
	return nil
}

func (r *fakePostRepo) UpdateAuthorSnapshot(_ context.Context, userID primitive.ObjectID, by models.ByUser) (int64, error) {
	r.mu.Lock()
	var n int64
	for _, p := range r.posts {
		if p.CreatedBy == userID {
			p.ByUser = by
			n++
		}
	}
	r.mu.Unlock()

	select {
	case r.snapshotRewrites <- struct{}{}:
	default:
	}
	return n, nil
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[primitive.ObjectID]*models.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[primitive.ObjectID]*models.Category)}
}

func (r *fakeCategoryRepo) CreateCategory(_ context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	category.ID = primitive.NewObjectID()
	category.CreatedAt = time.Now()
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *fakeCategoryRepo) GetCategoryByID(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cat, ok := r.categories[id]; ok {
		clone := *cat
		return &clone, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeCategoryRepo) GetCategories(_ context.Context, createdBy primitive.ObjectID) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Category
	for _, cat := range r.categories {
		if createdBy.IsZero() || cat.CreatedBy == createdBy {
			out = append(out, *cat)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) UpdateCategory(_ context.Context, id primitive.ObjectID, name string, tags []string) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cat, ok := r.categories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if name != "" {
		cat.Name = name
	}
	if tags != nil {
		cat.Tags = tags
	}
	clone := *cat
	return &clone, nil
}

func (r *fakeCategoryRepo) DeleteCategory(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string // recipient addresses
}

func (m *fakeMailer) Send(_ context.Context, to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func page(posts []models.Post, skip, limit int64) []models.Post {
	if skip >= int64(len(posts)) {
		return nil
	}
	posts = posts[skip:]
	if limit < int64(len(posts)) {
		posts = posts[:limit]
	}
	return posts
}
