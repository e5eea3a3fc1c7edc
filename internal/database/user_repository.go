// internal/database/user_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/s-nagoti/VT-Memegen/internal/models"
	"github.com/s-nagoti/VT-Memegen/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserDocument represents the MongoDB schema for a user
type UserDocument struct {
	ID             string    `bson:"_id"`
	Username       string    `bson:"username"`
	Email          string    `bson:"email"`
	HashedPassword string    `bson:"hashedPassword"`
	Bio            string    `bson:"bio"`
	LikedPosts     []string  `bson:"likedPosts"`
	CreatedAt      time.Time `bson:"createdAt"`
}

func userDocumentToModel(doc *UserDocument) (*models.User, error) {
	userID, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, utils.NewDecodeError("users", fmt.Errorf("invalid user ID: %v", err))
	}

	likedPosts, err := stringsToIDs(doc.LikedPosts)
	if err != nil {
		return nil, utils.NewDecodeError("users", fmt.Errorf("invalid liked-post member: %v", err))
	}

	return &models.User{
		ID:             userID,
		Username:       doc.Username,
		Email:          doc.Email,
		HashedPassword: doc.HashedPassword,
		Bio:            doc.Bio,
		LikedPosts:     likedPosts,
		CreatedAt:      doc.CreatedAt,
	}, nil
}

// SaveUser creates or updates a user in MongoDB
func (m *MongoDB) SaveUser(ctx context.Context, user *models.User) error {
	doc := UserDocument{
		ID:             user.ID.String(),
		Username:       user.Username,
		Email:          user.Email,
		HashedPassword: user.HashedPassword,
		Bio:            user.Bio,
		LikedPosts:     idsToStrings(user.LikedPosts),
		CreatedAt:      user.CreatedAt,
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": user.ID.String()}
	update := bson.M{"$set": doc}

	_, err := m.Users.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return utils.NewAppError(utils.ErrStoreFailure, "Failed to save user", err)
	}
	return nil
}

// GetUser retrieves a user from MongoDB by their ID
func (m *MongoDB) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrUserNotFound, "User not found", err)
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrStoreFailure, "Failed to get user", err)
	}

	return userDocumentToModel(&doc)
}

// GetUserByEmail retrieves a user from MongoDB by their email address
func (m *MongoDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrUserNotFound, "User not found", err)
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrStoreFailure, "Failed to get user", err)
	}

	return userDocumentToModel(&doc)
}

// DeleteUser removes a user document. Post cleanup is handled by the caller
// so the cascade stays visible at the operation level.
func (m *MongoDB) DeleteUser(ctx context.Context, id uuid.UUID) error {
	result, err := m.Users.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return utils.NewAppError(utils.ErrStoreFailure, "Failed to delete user", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewAppError(utils.ErrUserNotFound, "User not found", nil)
	}
	return nil
}
