package session

import (
	"github.com/kingrea/dumm/internal/model"
)

// Feed returns the loaded page of the feed, newest first.
func (s *Session) Feed() []model.Post {
	posts := s.store.Posts()
	if len(posts) > s.feedLimit {
		posts = posts[:s.feedLimit]
	}
	return posts
}

// HasMoreFeed reports whether LoadMore would reveal more posts.
func (s *Session) HasMoreFeed() bool { return len(s.store.Posts()) > s.feedLimit }

// LoadMore extends the feed by one page.
func (s *Session) LoadMore() bool {
	if !s.HasMoreFeed() {
		return false
	}
	s.feedLimit += s.pageSize
	return true
}

// ProfileUser resolves the active profile.
func (s *Session) ProfileUser() (model.User, bool) {
	return s.store.User(s.nav.State().ProfileID)
}

// IsOwnProfile reports whether the active profile is the current user's.
func (s *Session) IsOwnProfile() bool {
	return s.nav.State().ProfileID == s.store.CurrentUserID()
}

// ProfilePosts lists the active profile's posts.
func (s *Session) ProfilePosts() []model.Post {
	return s.store.PostsByUser(s.nav.State().ProfileID)
}

// SavedPosts lists bookmarked posts. Only the owner sees the Saved tab.
func (s *Session) SavedPosts() []model.Post {
	if !s.IsOwnProfile() {
		return nil
	}
	return s.store.BookmarkedPosts()
}

// ChatPeer resolves the user on the other side of the active chat.
func (s *Session) ChatPeer() (model.User, bool) {
	return s.store.User(s.nav.State().ProfileID)
}

// ChatMessages is the active conversation's thread.
func (s *Session) ChatMessages() []model.Message {
	return s.store.Messages(s.nav.State().ConversationID)
}

// InboxEntry is a conversation joined with its peer.
type InboxEntry struct {
	Conversation model.Conversation
	Peer         model.User
}

// Inbox lists conversations whose peer resolves.
func (s *Session) Inbox() []InboxEntry {
	var out []InboxEntry
	for _, c := range s.store.Conversations() {
		peer, ok := s.store.User(c.UserID)
		if !ok {
			continue
		}
		out = append(out, InboxEntry{Conversation: c, Peer: peer})
	}
	return out
}

// Activity is a notification joined with what it refers to.
type Activity struct {
	Notification model.Notification
	From         model.User
	Post         *model.Post
	Text         string
}

var activityText = map[model.NotificationKind]string{
	model.NotifyFollow:  "started following you.",
	model.NotifyLike:    "liked your post.",
	model.NotifyComment: "commented on your post.",
}

// Activities resolves notifications. Entries whose sender is unknown are
// skipped; a missing post only drops the thumbnail.
func (s *Session) Activities() []Activity {
	var out []Activity
	for _, n := range s.store.Notifications() {
		from, ok := s.store.User(n.FromUserID)
		if !ok {
			continue
		}
		a := Activity{Notification: n, From: from, Text: activityText[n.Kind]}
		if n.PostID != "" {
			if p, ok := s.store.Post(n.PostID); ok {
				a.Post = &p
			}
		}
		out = append(out, a)
	}
	return out
}

// DiscoverColumns searches posts and deals the results into two columns.
func (s *Session) DiscoverColumns(query string) (left, right []model.Post) {
	for i, p := range s.store.Search(query) {
		if i%2 == 0 {
			left = append(left, p)
		} else {
			right = append(right, p)
		}
	}
	return left, right
}

// ActiveReel is the reel currently playing.
func (s *Session) ActiveReel() (model.Reel, int, bool) {
	reels := s.store.Reels()
	if len(reels) == 0 {
		return model.Reel{}, 0, false
	}
	if s.reelIndex >= len(reels) {
		s.reelIndex = len(reels) - 1
	}
	return reels[s.reelIndex], s.reelIndex, true
}

// ReelPlaying reports whether the active reel plays.
func (s *Session) ReelPlaying() bool { return s.reelPlaying }

// NextReel makes the following reel the only one playing.
func (s *Session) NextReel() bool {
	if s.reelIndex+1 >= len(s.store.Reels()) {
		return false
	}
	s.reelIndex++
	s.reelPlaying = true
	return true
}

// PrevReel makes the previous reel the only one playing.
func (s *Session) PrevReel() bool {
	if s.reelIndex == 0 {
		return false
	}
	s.reelIndex--
	s.reelPlaying = true
	return true
}

// ToggleReelPlay pauses or resumes the active reel.
func (s *Session) ToggleReelPlay() { s.reelPlaying = !s.reelPlaying }

// ToggleReelLike flips the local like on a reel and returns the new state.
func (s *Session) ToggleReelLike(reelID string) bool {
	s.reelLiked[reelID] = !s.reelLiked[reelID]
	return s.reelLiked[reelID]
}

// ReelLikes is the displayed like counter of a reel.
func (s *Session) ReelLikes(r model.Reel) int {
	if s.reelLiked[r.ID] {
		return r.Likes + 1
	}
	return r.Likes
}
