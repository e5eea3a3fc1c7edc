package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is one of the fixed gallery tags a post can carry.
type Category string

const (
	CategoryHousing   Category = "Housing"
	CategoryClasses   Category = "Classes"
	CategoryDining    Category = "Dining"
	CategoryNightLife Category = "NightLife"
	CategorySports    Category = "Sports"
	CategoryDorms     Category = "Dorms"
)

// AllCategories lists every valid gallery tag.
var AllCategories = []Category{
	CategoryHousing,
	CategoryClasses,
	CategoryDining,
	CategoryNightLife,
	CategorySports,
	CategoryDorms,
}

// IsValidCategory reports whether c names a known category.
func IsValidCategory(c Category) bool {
	for _, known := range AllCategories {
		if known == c {
			return true
		}
	}
	return false
}

// Post is a meme post. Title, description, image and overlay texts are
// immutable after creation; the vote and view ledgers are mutated over the
// post's lifetime. A user appears in at most one of Upvotes/Downvotes.
type Post struct {
	ID            uuid.UUID         `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	ImageURL      string            `json:"imageUrl"`
	TemplateID    string            `json:"templateId"`
	Texts         map[string]string `json:"texts"` // overlay text keyed by template text-area key
	AuthorID      uuid.UUID         `json:"authorId"`
	Categories    []Category        `json:"categories"`
	Upvotes       []uuid.UUID       `json:"upvotes"`
	Downvotes     []uuid.UUID       `json:"downvotes"`
	PageViews     []uuid.UUID       `json:"pageViews"`
	CommentsCount int               `json:"commentsCount"` // refreshed projection, not transactional
	AIExplanation string            `json:"aiExplanation,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// UpvoteCount returns the derived upvote projection.
func (p *Post) UpvoteCount() int { return len(p.Upvotes) }

// DownvoteCount returns the derived downvote projection.
func (p *Post) DownvoteCount() int { return len(p.Downvotes) }

// ViewCount returns the derived page-view projection.
func (p *Post) ViewCount() int { return len(p.PageViews) }

// HasViewed reports whether userID is already in the view ledger.
func (p *Post) HasViewed(userID uuid.UUID) bool {
	return containsID(p.PageViews, userID)
}

// HasCategory reports whether the post carries the given tag.
func (p *Post) HasCategory(c Category) bool {
	for _, tag := range p.Categories {
		if tag == c {
			return true
		}
	}
	return false
}

// HasAllCategories reports whether the post carries every given tag,
// matching the gallery filter semantics.
func (p *Post) HasAllCategories(cs []Category) bool {
	for _, c := range cs {
		if !p.HasCategory(c) {
			return false
		}
	}
	return true
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// removeID returns a new slice so ledgers handed out earlier keep their
// contents when a later toggle rewrites the set.
func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}
