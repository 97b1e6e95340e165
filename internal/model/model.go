// internal/model/model.go
//
// Entity types shared by the store, the navigator-driven views and the
// story player. Everything here is plain data: no behaviour beyond cloning.

package model

import "time"

// User is a member of the network.
type User struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Username  string `yaml:"username"`
	AvatarURL string `yaml:"avatar_url"`
	Posts     int    `yaml:"posts"`
	Followers int    `yaml:"followers"`
	Following int    `yaml:"following"`
	Bio       string `yaml:"bio,omitempty"`
	HasStory  bool   `yaml:"has_story"`
}

// Comment is attached to a post, a story item or a live stream.
// Replies are one level deep: a reply never carries replies of its own.
type Comment struct {
	ID      string    `yaml:"id"`
	UserID  string    `yaml:"user_id"`
	Text    string    `yaml:"text"`
	Replies []Comment `yaml:"replies,omitempty"`
}

// Post is a feed entry. Live posts carry a viewer count and their own
// comment stream, separate from Comments.
type Post struct {
	ID           string    `yaml:"id"`
	UserID       string    `yaml:"user_id"`
	ImageURL     string    `yaml:"image_url"`
	VideoURL     string    `yaml:"video_url,omitempty"`
	Caption      string    `yaml:"caption"`
	Likes        int       `yaml:"likes"`
	Comments     []Comment `yaml:"comments,omitempty"`
	Timestamp    string    `yaml:"timestamp"`
	IsLive       bool      `yaml:"is_live,omitempty"`
	ViewerCount  int       `yaml:"viewer_count,omitempty"`
	LiveComments []Comment `yaml:"live_comments,omitempty"`
}

// HasVideo reports whether the post plays a video rather than a still.
func (p Post) HasVideo() bool { return p.VideoURL != "" }

// MediaKind distinguishes still images from videos.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// StoryItem is one unit of a user's story, shown for Duration.
type StoryItem struct {
	ID       string        `yaml:"id"`
	Kind     MediaKind     `yaml:"type"`
	URL      string        `yaml:"url"`
	Duration time.Duration `yaml:"duration"`
	// Length is the playable length of a video clip, zero when unknown.
	Length   time.Duration `yaml:"length,omitempty"`
	Comments []Comment     `yaml:"comments,omitempty"`
}

// UserStories is the ordered story collection of a single user.
type UserStories struct {
	UserID  string      `yaml:"user_id"`
	Stories []StoryItem `yaml:"stories"`
}

// TrayEntry is one avatar in the story tray.
type TrayEntry struct {
	ID       string `yaml:"id"`
	UserID   string `yaml:"user_id"`
	ImageURL string `yaml:"image_url"`
}

// Conversation is a direct-message thread with a single peer.
type Conversation struct {
	ID          string `yaml:"id"`
	UserID      string `yaml:"user_id"`
	LastMessage string `yaml:"last_message"`
	Timestamp   string `yaml:"timestamp"`
	UnreadCount int    `yaml:"unread_count"`
}

// Message is a chat line. IsSender marks messages written by the current user.
type Message struct {
	ID        string `yaml:"id"`
	Text      string `yaml:"text"`
	IsSender  bool   `yaml:"is_sender"`
	Timestamp string `yaml:"timestamp"`
	ImageURL  string `yaml:"image_url,omitempty"`
}

// NotificationKind enumerates activity notifications.
type NotificationKind string

const (
	NotifyFollow  NotificationKind = "follow"
	NotifyLike    NotificationKind = "like"
	NotifyComment NotificationKind = "comment"
)

// Notification reports activity by another user.
type Notification struct {
	ID         string           `yaml:"id"`
	Kind       NotificationKind `yaml:"type"`
	FromUserID string           `yaml:"from_user_id"`
	PostID     string           `yaml:"post_id,omitempty"`
	Timestamp  string           `yaml:"timestamp"`
}

// Reel is a short looping video.
type Reel struct {
	ID         string `yaml:"id"`
	UserID     string `yaml:"user_id"`
	VideoURL   string `yaml:"video_url"`
	Caption    string `yaml:"caption"`
	Likes      int    `yaml:"likes"`
	Comments   int    `yaml:"comments"`
	Shares     int    `yaml:"shares"`
	AudioTitle string `yaml:"audio_title"`
}
