package store

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kingrea/dumm/internal/model"
)

// Mutations never fail loudly: a missing target or blank input leaves the
// store untouched and reports ok == false.

// SharePost prepends a new post owned by the current user. An image reference
// is required; videoRef is optional.
func (s *Store) SharePost(caption, imageRef, videoRef string) (model.Post, bool) {
	if blank(imageRef) {
		s.logger.Debug("share ignored: no media selected")
		return model.Post{}, false
	}
	post := model.Post{
		ID:        s.ids.NewID("p"),
		UserID:    s.currentUserID,
		ImageURL:  imageRef,
		VideoURL:  videoRef,
		Caption:   caption,
		Likes:     0,
		Comments:  []model.Comment{},
		Timestamp: JustNow,
	}
	s.posts = append([]model.Post{post}, s.posts...)
	s.logger.Info("post shared", zap.String("post_id", post.ID), zap.Bool("video", videoRef != ""))
	return post.Clone(), true
}

// GoLive prepends a live post with the streamer as its only viewer.
func (s *Store) GoLive(caption string) model.Post {
	id := s.ids.NewID("p")
	post := model.Post{
		ID:           id,
		UserID:       s.currentUserID,
		ImageURL:     fmt.Sprintf("https://picsum.photos/seed/%s/600/800", id),
		VideoURL:     liveStreamPlaceholder,
		Caption:      caption,
		Comments:     []model.Comment{},
		Timestamp:    JustNow,
		IsLive:       true,
		ViewerCount:  1,
		LiveComments: []model.Comment{},
	}
	s.posts = append([]model.Post{post}, s.posts...)
	s.logger.Info("live stream started", zap.String("post_id", id))
	return post.Clone()
}

// EndLive clears the live flag of a post. The post itself stays in the feed.
func (s *Store) EndLive(postID string) bool {
	i := s.postIndex(postID)
	if i < 0 || !s.posts[i].IsLive {
		return false
	}
	s.posts[i].IsLive = false
	s.logger.Info("live stream ended", zap.String("post_id", postID))
	return true
}

// ToggleBookmark flips membership of postID and returns the new membership.
func (s *Store) ToggleBookmark(postID string) bool {
	if _, ok := s.bookmarks[postID]; ok {
		delete(s.bookmarks, postID)
		s.logger.Info("bookmark removed", zap.String("post_id", postID))
		return false
	}
	s.bookmarks[postID] = struct{}{}
	s.logger.Info("bookmark added", zap.String("post_id", postID))
	return true
}

// ToggleLike flips the current user's like on an existing post and returns
// the new state. Unknown posts stay unliked.
func (s *Store) ToggleLike(postID string) bool {
	if !s.HasPost(postID) {
		return false
	}
	if _, ok := s.liked[postID]; ok {
		delete(s.liked, postID)
		return false
	}
	s.liked[postID] = struct{}{}
	return true
}

// AddComment appends a top-level comment to a post.
func (s *Store) AddComment(postID, text string) (model.Comment, bool) {
	i := s.postIndex(postID)
	if i < 0 || blank(text) {
		return model.Comment{}, false
	}
	c := model.Comment{ID: s.ids.NewID("c"), UserID: s.currentUserID, Text: strings.TrimSpace(text)}
	s.posts[i].Comments = append(s.posts[i].Comments, c)
	s.logger.Info("comment added", zap.String("post_id", postID), zap.String("comment_id", c.ID))
	return c, true
}

// AddReply appends a reply under a top-level comment. Replies cannot be
// replied to, so commentID must name a top-level comment.
func (s *Store) AddReply(postID, commentID, text string) (model.Comment, bool) {
	i := s.postIndex(postID)
	if i < 0 || blank(text) {
		return model.Comment{}, false
	}
	for j := range s.posts[i].Comments {
		parent := &s.posts[i].Comments[j]
		if parent.ID != commentID {
			continue
		}
		r := model.Comment{ID: s.ids.NewID("r"), UserID: s.currentUserID, Text: strings.TrimSpace(text)}
		parent.Replies = append(parent.Replies, r)
		s.logger.Info("reply added", zap.String("post_id", postID), zap.String("parent_id", commentID), zap.String("reply_id", r.ID))
		return r, true
	}
	s.logger.Debug("reply ignored: parent not found", zap.String("post_id", postID), zap.String("parent_id", commentID))
	return model.Comment{}, false
}

// AddStory appends a new image item to the current user's stories, creating
// the collection and tray entry at the front when missing, and marks the
// user as having a story.
func (s *Store) AddStory(duration time.Duration) model.StoryItem {
	id := s.ids.NewID("s")
	item := model.StoryItem{
		ID:       id,
		Kind:     model.MediaImage,
		URL:      fmt.Sprintf("https://picsum.photos/seed/%s/1080/1920", id),
		Duration: duration,
	}
	if i := s.userStoriesIndex(s.currentUserID); i >= 0 {
		s.userStories[i].Stories = append(s.userStories[i].Stories, item)
	} else {
		entry := model.UserStories{UserID: s.currentUserID, Stories: []model.StoryItem{item}}
		s.userStories = append([]model.UserStories{entry}, s.userStories...)
	}
	if !s.inTray(s.currentUserID) {
		if u, ok := s.CurrentUser(); ok {
			entry := model.TrayEntry{ID: "s_" + u.ID, UserID: u.ID, ImageURL: u.AvatarURL}
			s.tray = append([]model.TrayEntry{entry}, s.tray...)
		}
	}
	if i := s.userIndex(s.currentUserID); i >= 0 {
		s.users[i].HasStory = true
	}
	s.logger.Info("story added", zap.String("story_id", id))
	return item.Clone()
}

// AddStoryComment appends a comment to one story item of userID.
func (s *Store) AddStoryComment(userID, storyID, text string) (model.Comment, bool) {
	i := s.userStoriesIndex(userID)
	if i < 0 || blank(text) {
		return model.Comment{}, false
	}
	items := s.userStories[i].Stories
	for j := range items {
		if items[j].ID != storyID {
			continue
		}
		c := model.Comment{ID: s.ids.NewID("sc"), UserID: s.currentUserID, Text: strings.TrimSpace(text)}
		items[j].Comments = append(items[j].Comments, c)
		s.logger.Info("story comment added", zap.String("user_id", userID), zap.String("story_id", storyID))
		return c, true
	}
	return model.Comment{}, false
}

// SaveProfile replaces the stored user with the same id. It is a full
// record replace: callers copy any fields they want kept.
func (s *Store) SaveProfile(updated model.User) bool {
	i := s.userIndex(updated.ID)
	if i < 0 {
		return false
	}
	s.users[i] = updated
	s.logger.Info("profile saved", zap.String("user_id", updated.ID))
	return true
}

// SendMessage appends a message from the current user and refreshes the
// conversation preview.
func (s *Store) SendMessage(conversationID, text string) (model.Message, bool) {
	i := s.conversationIndex(conversationID)
	if i < 0 || blank(text) {
		return model.Message{}, false
	}
	msg := model.Message{ID: s.ids.NewID("m"), Text: strings.TrimSpace(text), IsSender: true, Timestamp: JustNow}
	s.messages[conversationID] = append(s.messages[conversationID], msg)
	s.conversations[i].LastMessage = msg.Text
	s.conversations[i].Timestamp = JustNow
	s.conversations[i].UnreadCount = 0
	s.logger.Info("message sent", zap.String("conversation_id", conversationID))
	return msg, true
}

// MarkRead zeroes the unread counter of a conversation.
func (s *Store) MarkRead(conversationID string) bool {
	i := s.conversationIndex(conversationID)
	if i < 0 || s.conversations[i].UnreadCount == 0 {
		return false
	}
	s.conversations[i].UnreadCount = 0
	return true
}

// AddLiveComment appends to the live comment stream of a live post.
func (s *Store) AddLiveComment(postID, text string) (model.Comment, bool) {
	i := s.postIndex(postID)
	if i < 0 || !s.posts[i].IsLive || blank(text) {
		return model.Comment{}, false
	}
	c := model.Comment{ID: s.ids.NewID("lc"), UserID: s.currentUserID, Text: strings.TrimSpace(text)}
	s.posts[i].LiveComments = append(s.posts[i].LiveComments, c)
	return c, true
}

func (s *Store) inTray(userID string) bool {
	for _, t := range s.tray {
		if t.UserID == userID {
			return true
		}
	}
	return false
}
