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

// PostRepository defines the interface for post data operations. Comments
// are posts whose "of" field references the parent post.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	GetPosts(ctx context.Context, userID primitive.ObjectID, categoryID *primitive.ObjectID, skip, limit int64) ([]models.Post, error)
	GetComments(ctx context.Context, postID primitive.ObjectID, skip, limit int64) ([]models.Post, error)
	UpdatePost(ctx context.Context, id primitive.ObjectID, post *models.Post) error
	DeletePost(ctx context.Context, id primitive.ObjectID) error
	SetReaction(ctx context.Context, postID, userID primitive.ObjectID, reactType models.ReactType) error
	RemoveReaction(ctx context.Context, postID, userID primitive.ObjectID) error
	UpdateAuthorSnapshot(ctx context.Context, userID primitive.ObjectID, by models.ByUser) (int64, error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Reacts == nil {
		post.Reacts = []models.Reaction{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPosts retrieves top-level posts of a user, optionally filtered by
// category, newest first.
func (r *MongoPostRepository) GetPosts(ctx context.Context, userID primitive.ObjectID, categoryID *primitive.ObjectID, skip, limit int64) ([]models.Post, error) {
	filter := bson.M{"createdBy": userID, "of": nil}
	if categoryID != nil {
		filter["categories"] = *categoryID
	}

	var posts []models.Post
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetComments retrieves the paginated comments of a post, newest first.
func (r *MongoPostRepository) GetComments(ctx context.Context, postID primitive.ObjectID, skip, limit int64) ([]models.Post, error) {
	var posts []models.Post
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"of": postID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost updates the content fields of an existing post in MongoDB
func (r *MongoPostRepository) UpdatePost(ctx context.Context, id primitive.ObjectID, post *models.Post) error {
	post.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"type":       post.Type,
			"text":       post.Text,
			"textVi":     post.TextVi,
			"textEn":     post.TextEn,
			"audio":      post.Audio,
			"photos":     post.Photos,
			"videos":     post.Videos,
			"tags":       post.Tags,
			"categories": post.Categories,
			"updatedAt":  post.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetReaction upserts the caller's single reaction on a post. The whole
// replace happens in one pipeline update, so concurrent first reactions by
// the same user cannot double-append.
func (r *MongoPostRepository) SetReaction(ctx context.Context, postID, userID primitive.ObjectID, reactType models.ReactType) error {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"reacts": bson.M{"$concatArrays": bson.A{
				bson.M{"$filter": bson.M{
					"input": bson.M{"$ifNull": bson.A{"$reacts", bson.A{}}},
					"cond":  bson.M{"$ne": bson.A{"$$this.user", userID}},
				}},
				bson.A{bson.M{"user": userID, "type": reactType}},
			}},
		}}},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": postID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveReaction deletes the caller's reaction from a post, if any.
func (r *MongoPostRepository) RemoveReaction(ctx context.Context, postID, userID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$pull": bson.M{"reacts": bson.M{"user": userID}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAuthorSnapshot rewrites the cached byUser snapshot on every post of
// a user. Returns the number of posts touched.
func (r *MongoPostRepository) UpdateAuthorSnapshot(ctx context.Context, userID primitive.ObjectID, by models.ByUser) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"createdBy": userID},
		bson.M{"$set": bson.M{"byUser": by}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
