// internal/store/store.go
//
// The entity store owns every collection the app shows. It is created from a
// seed, read by the views, and changed only through the mutation methods in
// mutations.go. All calls happen on the UI goroutine, so there is no locking.

package store

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kingrea/dumm/internal/model"
	"github.com/kingrea/dumm/internal/seed"
)

const (
	// JustNow labels anything created during the session.
	JustNow = "Just now"

	liveStreamPlaceholder = "https://storage.googleapis.com/gtv-videos-bucket/sample/ForBiggerJoyrides.mp4"
)

// Store holds users, posts, stories, conversations, notifications and reels.
type Store struct {
	currentUserID string
	ids           IDGenerator
	logger        *zap.Logger

	users         []model.User
	posts         []model.Post
	tray          []model.TrayEntry
	userStories   []model.UserStories
	conversations []model.Conversation
	messages      map[string][]model.Message
	notifications []model.Notification
	reels         []model.Reel

	bookmarks map[string]struct{}
	liked     map[string]struct{}
}

// Option customizes store construction.
type Option func(*Store)

// WithIDGenerator overrides the UUID-based generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) {
		if g != nil {
			s.ids = g
		}
	}
}

// WithLogger attaches a structured logger for mutation events.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New copies the seed into a fresh store acting on behalf of currentUserID.
func New(sd *seed.Seed, currentUserID string, opts ...Option) *Store {
	s := &Store{
		currentUserID: currentUserID,
		ids:           UUIDGenerator{},
		logger:        zap.NewNop(),
		messages:      map[string][]model.Message{},
		bookmarks:     map[string]struct{}{},
		liked:         map[string]struct{}{},
	}
	if sd != nil {
		s.users = append([]model.User(nil), sd.Users...)
		s.posts = model.ClonePosts(sd.Posts)
		s.tray = append([]model.TrayEntry(nil), sd.Stories...)
		s.userStories = model.CloneUserStories(sd.UserStories)
		s.conversations = append([]model.Conversation(nil), sd.Conversations...)
		s.messages = model.CloneMessages(sd.Messages)
		s.notifications = append([]model.Notification(nil), sd.Notifications...)
		s.reels = append([]model.Reel(nil), sd.Reels...)
		for _, id := range sd.Bookmarks {
			s.bookmarks[id] = struct{}{}
		}
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CurrentUserID returns the id of the acting user.
func (s *Store) CurrentUserID() string { return s.currentUserID }

// CurrentUser resolves the acting user.
func (s *Store) CurrentUser() (model.User, bool) { return s.User(s.currentUserID) }

// User resolves a user by id.
func (s *Store) User(id string) (model.User, bool) {
	if i := s.userIndex(id); i >= 0 {
		return s.users[i], true
	}
	return model.User{}, false
}

// Users returns all users in seed order.
func (s *Store) Users() []model.User {
	return append([]model.User(nil), s.users...)
}

// Post resolves a post by id.
func (s *Store) Post(id string) (model.Post, bool) {
	if i := s.postIndex(id); i >= 0 {
		return s.posts[i].Clone(), true
	}
	return model.Post{}, false
}

// HasPost reports whether id resolves to a post.
func (s *Store) HasPost(id string) bool { return s.postIndex(id) >= 0 }

// Posts returns the feed, newest first.
func (s *Store) Posts() []model.Post { return model.ClonePosts(s.posts) }

// PostsByUser returns the posts owned by userID in feed order.
func (s *Store) PostsByUser(userID string) []model.Post {
	var out []model.Post
	for _, p := range s.posts {
		if p.UserID == userID {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Tray returns the story tray in display order.
func (s *Store) Tray() []model.TrayEntry {
	return append([]model.TrayEntry(nil), s.tray...)
}

// UserStories returns every story collection in viewer order.
func (s *Store) UserStories() []model.UserStories {
	return model.CloneUserStories(s.userStories)
}

// StoriesFor resolves one user's story collection.
func (s *Store) StoriesFor(userID string) (model.UserStories, bool) {
	if i := s.userStoriesIndex(userID); i >= 0 {
		return s.userStories[i].Clone(), true
	}
	return model.UserStories{}, false
}

// Conversations returns the inbox in seed order.
func (s *Store) Conversations() []model.Conversation {
	return append([]model.Conversation(nil), s.conversations...)
}

// Conversation resolves a conversation by id.
func (s *Store) Conversation(id string) (model.Conversation, bool) {
	if i := s.conversationIndex(id); i >= 0 {
		return s.conversations[i], true
	}
	return model.Conversation{}, false
}

// Messages returns the thread of a conversation, oldest first.
func (s *Store) Messages(conversationID string) []model.Message {
	return append([]model.Message(nil), s.messages[conversationID]...)
}

// Notifications returns activity notifications, newest first.
func (s *Store) Notifications() []model.Notification {
	return append([]model.Notification(nil), s.notifications...)
}

// Reels returns the reels in display order.
func (s *Store) Reels() []model.Reel {
	return append([]model.Reel(nil), s.reels...)
}

// IsBookmarked reports bookmark membership.
func (s *Store) IsBookmarked(postID string) bool {
	_, ok := s.bookmarks[postID]
	return ok
}

// Bookmarks returns bookmarked post ids. Membership carries no order; the
// ids are sorted only to keep output stable.
func (s *Store) Bookmarks() []string {
	out := make([]string, 0, len(s.bookmarks))
	for id := range s.bookmarks {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// BookmarkedPosts returns bookmarked posts that still resolve, in feed order.
func (s *Store) BookmarkedPosts() []model.Post {
	var out []model.Post
	for _, p := range s.posts {
		if s.IsBookmarked(p.ID) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// IsLiked reports whether the current user liked the post this session.
func (s *Store) IsLiked(postID string) bool {
	_, ok := s.liked[postID]
	return ok
}

// LikeCount is the displayed like counter, including the session's own like.
func (s *Store) LikeCount(p model.Post) int {
	if s.IsLiked(p.ID) {
		return p.Likes + 1
	}
	return p.Likes
}

func (s *Store) userIndex(id string) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) postIndex(id string) int {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) userStoriesIndex(userID string) int {
	for i := range s.userStories {
		if s.userStories[i].UserID == userID {
			return i
		}
	}
	return -1
}

func (s *Store) conversationIndex(id string) int {
	for i := range s.conversations {
		if s.conversations[i].ID == id {
			return i
		}
	}
	return -1
}

func blank(text string) bool { return strings.TrimSpace(text) == "" }
