// internal/database/post_repository.go
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/s-nagoti/VT-Memegen/internal/models"
	"github.com/s-nagoti/VT-Memegen/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostDocument represents the MongoDB schema for a post.
type PostDocument struct {
	ID            string            `bson:"_id"`
	Title         string            `bson:"title"`
	Description   string            `bson:"description"`
	ImageURL      string            `bson:"imageUrl"`
	TemplateID    string            `bson:"templateId"`
	Texts         map[string]string `bson:"texts"`
	AuthorID      string            `bson:"authorId"`
	Categories    []string          `bson:"categories"`
	Upvotes       []string          `bson:"upvotes"`
	Downvotes     []string          `bson:"downvotes"`
	PageViews     []string          `bson:"pageViews"`
	AIExplanation string            `bson:"aiExplanation,omitempty"`
	CreatedAt     time.Time         `bson:"createdAt"`
}

func postModelToDocument(post *models.Post) *PostDocument {
	categories := make([]string, len(post.Categories))
	for i, c := range post.Categories {
		categories[i] = string(c)
	}

	return &PostDocument{
		ID:            post.ID.String(),
		Title:         post.Title,
		Description:   post.Description,
		ImageURL:      post.ImageURL,
		TemplateID:    post.TemplateID,
		Texts:         post.Texts,
		AuthorID:      post.AuthorID.String(),
		Categories:    categories,
		Upvotes:       idsToStrings(post.Upvotes),
		Downvotes:     idsToStrings(post.Downvotes),
		PageViews:     idsToStrings(post.PageViews),
		AIExplanation: post.AIExplanation,
		CreatedAt:     post.CreatedAt,
	}
}

// postDocumentToModel decodes a store document into the typed model,
// failing with a decode error instead of propagating malformed fields.
func postDocumentToModel(doc *PostDocument) (*models.Post, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, utils.NewDecodeError("posts", fmt.Errorf("invalid post ID: %v", err))
	}

	authorID, err := uuid.Parse(doc.AuthorID)
	if err != nil {
		return nil, utils.NewDecodeError("posts", fmt.Errorf("invalid author ID: %v", err))
	}

	upvotes, err := stringsToIDs(doc.Upvotes)
	if err != nil {
		return nil, utils.NewDecodeError("posts", fmt.Errorf("invalid upvote member: %v", err))
	}

	downvotes, err := stringsToIDs(doc.Downvotes)
	if err != nil {
		return nil, utils.NewDecodeError("posts", fmt.Errorf("invalid downvote member: %v", err))
	}

	pageViews, err := stringsToIDs(doc.PageViews)
	if err != nil {
		return nil, utils.NewDecodeError("posts", fmt.Errorf("invalid page-view member: %v", err))
	}

	categories := make([]models.Category, len(doc.Categories))
	for i, c := range doc.Categories {
		categories[i] = models.Category(c)
	}

	return &models.Post{
		ID:            id,
		Title:         doc.Title,
		Description:   doc.Description,
		ImageURL:      doc.ImageURL,
		TemplateID:    doc.TemplateID,
		Texts:         doc.Texts,
		AuthorID:      authorID,
		Categories:    categories,
		Upvotes:       upvotes,
		Downvotes:     downvotes,
		PageViews:     pageViews,
		AIExplanation: doc.AIExplanation,
		CreatedAt:     doc.CreatedAt,
	}, nil
}

// SavePost creates or updates a post in MongoDB.
func (m *MongoDB) SavePost(ctx context.Context, post *models.Post) error {
	doc := postModelToDocument(post)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": post.ID.String()}
	update := bson.M{"$set": doc}

	_, err := m.Posts.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return utils.NewAppError(utils.ErrStoreFailure, "Failed to save post", err)
	}
	return nil
}

// GetPost retrieves a post by its ID.
func (m *MongoDB) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var doc PostDocument

	err := m.Posts.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", err)
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrStoreFailure, "Failed to get post", err)
	}

	return postDocumentToModel(&doc)
}

// GetAllPosts retrieves every post, newest first. Category filtering happens
// in the caller so the filter semantics stay in one place.
func (m *MongoDB) GetAllPosts(ctx context.Context) ([]*models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.Posts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrStoreFailure, "Failed to list posts", err)
	}
	defer cursor.Close(ctx)

	return decodePosts(ctx, cursor)
}

// GetUserPosts retrieves all posts created by the given author, newest first.
func (m *MongoDB) GetUserPosts(ctx context.Context, authorID uuid.UUID) ([]*models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.Posts.Find(ctx, bson.M{"authorId": authorID.String()}, opts)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrStoreFailure, "Failed to list user posts", err)
	}
	defer cursor.Close(ctx)

	return decodePosts(ctx, cursor)
}

func decodePosts(ctx context.Context, cursor *mongo.Cursor) ([]*models.Post, error) {
	var posts []*models.Post
	for cursor.Next(ctx) {
		var doc PostDocument
		if err := cursor.Decode(&doc); err != nil {
			log.Printf("Error decoding post document: %v", err)
			continue
		}

		post, err := postDocumentToModel(&doc)
		if err != nil {
			log.Printf("Error converting document to model: %v", err)
			continue
		}
		posts = append(posts, post)
	}

	if err := cursor.Err(); err != nil {
		return nil, utils.NewAppError(utils.ErrStoreFailure, "Cursor iteration failed", err)
	}
	return posts, nil
}

// ToggleUpvote flips the user's upvote on a post. The read of the current
// membership and the combined write (vote sets on the post, liked-posts on
// the user) run in one transaction, so concurrent toggles serialize instead
// of losing updates.
func (m *MongoDB) ToggleUpvote(ctx context.Context, postID, userID uuid.UUID) (*models.Post, error) {
	return m.togglePostVote(ctx, postID, userID, models.ToggleUpvote)
}

// ToggleDownvote is symmetric to ToggleUpvote with the set roles swapped.
func (m *MongoDB) ToggleDownvote(ctx context.Context, postID, userID uuid.UUID) (*models.Post, error) {
	return m.togglePostVote(ctx, postID, userID, models.ToggleDownvote)
}

func (m *MongoDB) togglePostVote(ctx context.Context, postID, userID uuid.UUID, toggle func(models.VoteState) models.VoteTransition) (*models.Post, error) {
	result, err := m.withTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var doc PostDocument
		err := m.Posts.FindOne(sc, bson.M{"_id": postID.String()}).Decode(&doc)
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", err)
		}
		if err != nil {
			return nil, utils.NewAppError(utils.ErrStoreFailure, "Failed to read post", err)
		}

		post, err := postDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}

		transition := toggle(post.VoteStateOf(userID))

		postUpdate := voteUpdate(transition, userID)
		if _, err := m.Posts.UpdateOne(sc, bson.M{"_id": postID.String()}, postUpdate); err != nil {
			return nil, utils.NewAppError(utils.ErrStoreFailure, "Failed to update post votes", err)
		}

		if userUpdate, ok := likedPostsUpdate(transition, postID); ok {
			res, err := m.Users.UpdateOne(sc, bson.M{"_id": userID.String()}, userUpdate)
			if err != nil {
				return nil, utils.NewAppError(utils.ErrStoreFailure, "Failed to update liked posts", err)
			}
			if res.MatchedCount == 0 {
				return nil, utils.NewAppError(utils.ErrUserNotFound, "User not found", nil)
			}
		}

		// Mirror the transition locally rather than re-reading the store.
		transition.Apply(post, userID)
		return post, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Post), nil
}

// voteUpdate expresses a transition as array-union/array-remove primitives.
// A transition never both adds to and removes from the same set.
func voteUpdate(t models.VoteTransition, userID uuid.UUID) bson.M {
	addToSet := bson.M{}
	pull := bson.M{}

	if t.AddUpvote {
		addToSet["upvotes"] = userID.String()
	}
	if t.AddDownvote {
		addToSet["downvotes"] = userID.String()
	}
	if t.RemoveUpvote {
		pull["upvotes"] = userID.String()
	}
	if t.RemoveDownvote {
		pull["downvotes"] = userID.String()
	}

	update := bson.M{}
	if len(addToSet) > 0 {
		update["$addToSet"] = addToSet
	}
	if len(pull) > 0 {
		update["$pull"] = pull
	}
	return update
}

func likedPostsUpdate(t models.VoteTransition, postID uuid.UUID) (bson.M, bool) {
	if t.AddLikedPost {
		return bson.M{"$addToSet": bson.M{"likedPosts": postID.String()}}, true
	}
	if t.RemoveLikedPost {
		return bson.M{"$pull": bson.M{"likedPosts": postID.String()}}, true
	}
	return nil, false
}

// RecordView adds the user to the post's page-view ledger. $addToSet makes
// repeat views no-ops, so a user counts at most once across sessions.
func (m *MongoDB) RecordView(ctx context.Context, postID, userID uuid.UUID) (*models.Post, error) {
	filter := bson.M{"_id": postID.String()}
	update := bson.M{"$addToSet": bson.M{"pageViews": userID.String()}}

	result, err := m.Posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrStoreFailure, "Failed to record view", err)
	}
	if result.MatchedCount == 0 {
		return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}

	return m.GetPost(ctx, postID)
}

// SetPostExplanation stores the AI explanation fetched from the explainer
// service. Best effort; the explanation is never required by an invariant.
func (m *MongoDB) SetPostExplanation(ctx context.Context, postID uuid.UUID, explanation string) error {
	filter := bson.M{"_id": postID.String()}
	update := bson.M{"$set": bson.M{"aiExplanation": explanation}}

	result, err := m.Posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return utils.NewAppError(utils.ErrStoreFailure, "Failed to save explanation", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}
	return nil
}

// DeletePost removes a post document. Comment cascade is handled by the
// caller via DeletePostComments so both collections go through the Store
// interface.
func (m *MongoDB) DeletePost(ctx context.Context, postID uuid.UUID) error {
	result, err := m.Posts.DeleteOne(ctx, bson.M{"_id": postID.String()})
	if err != nil {
		return utils.NewAppError(utils.ErrStoreFailure, "Failed to delete post", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}
	return nil
}

func idsToStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func stringsToIDs(ss []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, len(ss))
	for i, s := range ss {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}
