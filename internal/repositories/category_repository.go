package repositories

import (
	"context"
	"time"

	"github.com/lamdv/socialverse/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategoryByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	GetCategories(ctx context.Context, createdBy primitive.ObjectID) ([]models.Category, error)
	UpdateCategory(ctx context.Context, id primitive.ObjectID, name string, tags []string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id primitive.ObjectID) error
}

// MongoCategoryRepository implements CategoryRepository for MongoDB
type MongoCategoryRepository struct {
	collection *mongo.Collection
}

// NewMongoCategoryRepository creates a new MongoCategoryRepository
func NewMongoCategoryRepository(db *mongo.Database) *MongoCategoryRepository {
	return &MongoCategoryRepository{collection: db.Collection("categories")}
}

// CreateCategory creates a new category in MongoDB
func (r *MongoCategoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	category.ID = primitive.NewObjectID()
	category.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, category)
	return err
}

// GetCategoryByID retrieves a category by ID from MongoDB
func (r *MongoCategoryRepository) GetCategoryByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var category models.Category
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// GetCategories lists categories created by a user; the zero ObjectID lists
// every category.
func (r *MongoCategoryRepository) GetCategories(ctx context.Context, createdBy primitive.ObjectID) ([]models.Category, error) {
	filter := bson.M{}
	if !createdBy.IsZero() {
		filter["createdBy"] = createdBy
	}

	var categories []models.Category
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// UpdateCategory updates the name and tags of a category and returns the
// updated document.
func (r *MongoCategoryRepository) UpdateCategory(ctx context.Context, id primitive.ObjectID, name string, tags []string) (*models.Category, error) {
	set := bson.M{}
	if name != "" {
		set["name"] = name
	}
	if tags != nil {
		set["tags"] = tags
	}
	if len(set) == 0 {
		return r.GetCategoryByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var category models.Category
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&category)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// DeleteCategory deletes a category by ID from MongoDB
func (r *MongoCategoryRepository) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
