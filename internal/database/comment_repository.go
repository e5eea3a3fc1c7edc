// internal/database/comment_repository.go
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

// CommentDocument represents comment data in MongoDB
type CommentDocument struct {
	ID             string    `bson:"_id"`
	PostID         string    `bson:"postId"`
	AuthorID       string    `bson:"authorId"`
	AuthorUsername string    `bson:"authorUsername"`
	Text           string    `bson:"text"`
	Likes          []string  `bson:"likes"`
	CreatedAt      time.Time `bson:"createdAt"`
}

func commentModelToDocument(comment *models.Comment) *CommentDocument {
	return &CommentDocument{
		ID:             comment.ID.String(),
		PostID:         comment.PostID.String(),
		AuthorID:       comment.AuthorID.String(),
		AuthorUsername: comment.AuthorUsername,
		Text:           comment.Text,
		Likes:          idsToStrings(comment.Likes),
		CreatedAt:      comment.CreatedAt,
	}
}

func commentDocumentToModel(doc *CommentDocument) (*models.Comment, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, utils.NewDecodeError("comments", fmt.Errorf("invalid comment ID: %v", err))
	}

	postID, err := uuid.Parse(doc.PostID)
	if err != nil {
		return nil, utils.NewDecodeError("comments", fmt.Errorf("invalid post ID: %v", err))
	}

	authorID, err := uuid.Parse(doc.AuthorID)
	if err != nil {
		return nil, utils.NewDecodeError("comments", fmt.Errorf("invalid author ID: %v", err))
	}

	likes, err := stringsToIDs(doc.Likes)
	if err != nil {
		return nil, utils.NewDecodeError("comments", fmt.Errorf("invalid like member: %v", err))
	}

	return &models.Comment{
		ID:             id,
		PostID:         postID,
		AuthorID:       authorID,
		AuthorUsername: doc.AuthorUsername,
		Text:           doc.Text,
		Likes:          likes,
		CreatedAt:      doc.CreatedAt,
	}, nil
}

// SaveComment creates or updates a comment in MongoDB
func (m *MongoDB) SaveComment(ctx context.Context, comment *models.Comment) error {
	doc := commentModelToDocument(comment)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}

	_, err := m.Comments.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return utils.NewAppError(utils.ErrStoreFailure, "Failed to save comment", err)
	}
	return nil
}

// GetComment retrieves a comment by ID
func (m *MongoDB) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var doc CommentDocument

	err := m.Comments.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Comment not found", err)
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrStoreFailure, "Failed to get comment", err)
	}

	return commentDocumentToModel(&doc)
}

// GetPostComments retrieves all comments for a post in ascending creation
// order, which is the only ordering the comment stream delivers.
func (m *MongoDB) GetPostComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := m.Comments.Find(ctx, bson.M{"postId": postID.String()}, opts)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrStoreFailure, "Failed to get post comments", err)
	}
	defer cursor.Close(ctx)

	var comments []*models.Comment
	for cursor.Next(ctx) {
		var doc CommentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewDecodeError("comments", err)
		}

		comment, err := commentDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	if err := cursor.Err(); err != nil {
		return nil, utils.NewAppError(utils.ErrStoreFailure, "Cursor iteration failed", err)
	}
	return comments, nil
}

// ToggleCommentLike flips the user's membership in a comment's like ledger.
// Single-document mutation with no cross-document side effects, but the
// read-then-decide still runs in a transaction so two tabs of the same user
// cannot race each other into a double-add.
func (m *MongoDB) ToggleCommentLike(ctx context.Context, commentID, userID uuid.UUID) (*models.Comment, error) {
	result, err := m.withTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var doc CommentDocument
		err := m.Comments.FindOne(sc, bson.M{"_id": commentID.String()}).Decode(&doc)
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewAppError(utils.ErrNotFound, "Comment not found", err)
		}
		if err != nil {
			return nil, utils.NewAppError(utils.ErrStoreFailure, "Failed to read comment", err)
		}

		comment, err := commentDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}

		var update bson.M
		if comment.LikedBy(userID) {
			update = bson.M{"$pull": bson.M{"likes": userID.String()}}
		} else {
			update = bson.M{"$addToSet": bson.M{"likes": userID.String()}}
		}

		if _, err := m.Comments.UpdateOne(sc, bson.M{"_id": commentID.String()}, update); err != nil {
			return nil, utils.NewAppError(utils.ErrStoreFailure, "Failed to update comment likes", err)
		}

		comment.ToggleLike(userID)
		return comment, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Comment), nil
}

// CountPostComments counts a post's comments server-side without
// transferring documents. This is the eventually-consistent projection
// behind Post.CommentsCount; it is deliberately not tied to comment writes.
func (m *MongoDB) CountPostComments(ctx context.Context, postID uuid.UUID) (int, error) {
	count, err := m.Comments.CountDocuments(ctx, bson.M{"postId": postID.String()})
	if err != nil {
		return 0, utils.NewAppError(utils.ErrStoreFailure, "Failed to count comments", err)
	}
	return int(count), nil
}

// DeletePostComments removes every comment under a post (cascade on post
// deletion).
func (m *MongoDB) DeletePostComments(ctx context.Context, postID uuid.UUID) error {
	_, err := m.Comments.DeleteMany(ctx, bson.M{"postId": postID.String()})
	if err != nil {
		return utils.NewAppError(utils.ErrStoreFailure, "Failed to delete post comments", err)
	}
	return nil
}
