package models

import "github.com/google/uuid"

// VoteState is a user's current vote on a post: exactly one of none, up, down.
type VoteState string

const (
	VoteNone VoteState = "none"
	VoteUp   VoteState = "up"
	VoteDown VoteState = "down"
)

// VoteStateOf derives the user's current vote from the post's ledgers.
func (p *Post) VoteStateOf(userID uuid.UUID) VoteState {
	if containsID(p.Upvotes, userID) {
		return VoteUp
	}
	if containsID(p.Downvotes, userID) {
		return VoteDown
	}
	return VoteNone
}

// VoteTransition describes the ledger mutations one toggle produces. The
// store expresses AddX as an array-union and RemoveX as an array-remove, all
// inside one atomic write, so the mutual-exclusivity invariant holds no
// matter which state the toggle started from.
type VoteTransition struct {
	AddUpvote      bool
	RemoveUpvote   bool
	AddDownvote    bool
	RemoveDownvote bool

	// Denormalized membership on the user document ("liked posts").
	// Only the upvote toggle maintains it.
	AddLikedPost    bool
	RemoveLikedPost bool
}

// ToggleUpvote computes the transition for an upvote toggle from the given
// state. Voting up from a downvoted state removes the downvote in the same
// write; toggling an existing upvote removes it.
func ToggleUpvote(current VoteState) VoteTransition {
	switch current {
	case VoteUp:
		return VoteTransition{RemoveUpvote: true, RemoveLikedPost: true}
	case VoteDown:
		return VoteTransition{AddUpvote: true, RemoveDownvote: true, AddLikedPost: true}
	default:
		return VoteTransition{AddUpvote: true, RemoveDownvote: true, AddLikedPost: true}
	}
}

// ToggleDownvote is symmetric to ToggleUpvote with the set roles swapped.
// It never touches the liked-posts membership.
func ToggleDownvote(current VoteState) VoteTransition {
	switch current {
	case VoteDown:
		return VoteTransition{RemoveDownvote: true}
	case VoteUp:
		return VoteTransition{AddDownvote: true, RemoveUpvote: true}
	default:
		return VoteTransition{AddDownvote: true, RemoveUpvote: true}
	}
}

// Apply mirrors the transition onto an in-memory post so callers can update
// their cached projection without re-reading the store.
func (t VoteTransition) Apply(p *Post, userID uuid.UUID) {
	if t.RemoveUpvote && containsID(p.Upvotes, userID) {
		p.Upvotes = removeID(p.Upvotes, userID)
	}
	if t.RemoveDownvote && containsID(p.Downvotes, userID) {
		p.Downvotes = removeID(p.Downvotes, userID)
	}
	if t.AddUpvote && !containsID(p.Upvotes, userID) {
		p.Upvotes = append(p.Upvotes, userID)
	}
	if t.AddDownvote && !containsID(p.Downvotes, userID) {
		p.Downvotes = append(p.Downvotes, userID)
	}
}

// ApplyToUser mirrors the liked-posts side effect onto a user model.
func (t VoteTransition) ApplyToUser(u *User, postID uuid.UUID) {
	if t.RemoveLikedPost {
		u.LikedPosts = removeID(u.LikedPosts, postID)
	}
	if t.AddLikedPost && !containsID(u.LikedPosts, postID) {
		u.LikedPosts = append(u.LikedPosts, postID)
	}
}
