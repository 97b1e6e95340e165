// internal/session/session.go
//
// Session is the single owner of application state. It composes the entity
// store, the navigator and the story viewer, and every operation that
// touches more than one of them lives here so the views only read.

package session

import (
	"time"

	"go.uber.org/zap"

	"github.com/kingrea/dumm/internal/logbook"
	"github.com/kingrea/dumm/internal/media"
	"github.com/kingrea/dumm/internal/model"
	"github.com/kingrea/dumm/internal/navigator"
	"github.com/kingrea/dumm/internal/playback"
	"github.com/kingrea/dumm/internal/seed"
	"github.com/kingrea/dumm/internal/store"
)

// Options configure a Session. Zero values fall back to defaults.
type Options struct {
	CurrentUserID string
	Authenticated bool
	StoryDuration time.Duration
	PageSize      int
	Clock         func() time.Time
	IDs           store.IDGenerator
	Logger        *zap.Logger
	Journey       *logbook.Logbook
}

// Session drives one run of the client. It is used from a single goroutine.
type Session struct {
	store   *store.Store
	nav     *navigator.Navigator
	logger  *zap.Logger
	journey *logbook.Logbook
	now     func() time.Time

	storyDuration time.Duration
	pageSize      int
	feedLimit     int

	viewer    *playback.Viewer
	viewerSeq uint64

	camera *media.Scoped
	draft  Draft
	status string

	reelIndex   int
	reelPlaying bool
	reelLiked   map[string]bool
}

// New seeds a session. A nil seed starts with empty collections.
func New(sd *seed.Seed, opts Options) *Session {
	s := &Session{
		logger:        opts.Logger,
		journey:       opts.Journey,
		now:           opts.Clock,
		storyDuration: opts.StoryDuration,
		pageSize:      opts.PageSize,
		reelPlaying:   true,
		reelLiked:     map[string]bool{},
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.storyDuration <= 0 {
		s.storyDuration = playback.DefaultDuration
	}
	if s.pageSize <= 0 {
		s.pageSize = 3
	}
	s.feedLimit = s.pageSize

	userID := opts.CurrentUserID
	if userID == "" {
		userID = "u1"
	}
	storeOpts := []store.Option{store.WithLogger(s.logger.Named("store"))}
	if opts.IDs != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(opts.IDs))
	}
	s.store = store.New(sd, userID, storeOpts...)
	s.nav = navigator.New(opts.Authenticated,
		navigator.WithPostLookup(s.store),
		navigator.WithLogger(s.logger.Named("nav")),
		navigator.WithObserver(s.onTransition),
	)
	return s
}

// Store exposes the entity store for reading.
func (s *Session) Store() *store.Store { return s.store }

// State is the current navigator snapshot.
func (s *Session) State() navigator.State { return s.nav.State() }

// Screen is the current screen.
func (s *Session) Screen() navigator.Screen { return s.nav.Screen() }

// Status is the inline message shown under the current screen, if any.
func (s *Session) Status() string { return s.status }

// ClearStatus drops the inline message.
func (s *Session) ClearStatus() { s.status = "" }

// ShowNavBar reports whether the bottom bar is drawn.
func (s *Session) ShowNavBar() bool {
	st := s.nav.State()
	return !st.StoryOpen() && st.Screen.ShowsNavBar()
}

// Navigate moves to screen.
func (s *Session) Navigate(screen navigator.Screen) bool {
	return s.nav.Navigate(screen)
}

// Back closes the story overlay when it is open, otherwise it applies the
// inverse transition of the current screen.
func (s *Session) Back() {
	if s.nav.State().StoryOpen() {
		s.CloseStory()
		return
	}
	s.nav.Back()
}

// OpenProfile shows the profile of userID.
func (s *Session) OpenProfile(userID string) bool { return s.nav.OpenProfile(userID) }

// OpenMyProfile shows the current user's profile.
func (s *Session) OpenMyProfile() bool { return s.nav.OpenProfile(s.store.CurrentUserID()) }

// OpenChat opens a conversation with its peer and marks it read.
func (s *Session) OpenChat(conversationID string) bool {
	conv, ok := s.store.Conversation(conversationID)
	if !ok {
		s.logger.Debug("conversation not found", zap.String("conversation_id", conversationID))
		return false
	}
	if !s.nav.OpenChat(conv.ID, conv.UserID) {
		return false
	}
	s.store.MarkRead(conv.ID)
	return true
}

// OpenLiveStream shows a live post. A post that no longer resolves falls
// back to the previous screen.
func (s *Session) OpenLiveStream(postID string) bool { return s.nav.OpenLiveStream(postID) }

// OpenModal shows the creation sheet.
func (s *Session) OpenModal() { s.nav.OpenModal() }

// CloseModal dismisses the creation sheet without navigating.
func (s *Session) CloseModal() { s.nav.CloseModal() }

// ModalChoice is an entry of the creation sheet.
type ModalChoice int

const (
	ChoosePost ModalChoice = iota
	ChooseLive
)

// Choose selects an entry of the creation sheet and closes it.
func (s *Session) Choose(c ModalChoice) {
	if !s.nav.State().ModalOpen {
		return
	}
	switch c {
	case ChooseLive:
		s.nav.Navigate(navigator.GoLive)
	default:
		s.nav.Navigate(navigator.Upload)
	}
}

// Login completes the logged-out branch.
func (s *Session) Login() bool { return s.nav.Login() }

// SignUp completes the logged-out branch.
func (s *Session) SignUp() bool { return s.nav.SignUp() }

// SwitchAuthView toggles Login and SignUp.
func (s *Session) SwitchAuthView() { s.nav.SwitchAuthView() }

// Logout drops back to Login and closes every overlay.
func (s *Session) Logout() bool {
	s.closeViewer()
	return s.nav.Logout()
}

// SharePost publishes a post from the current user and shows the feed.
func (s *Session) SharePost(caption, imageRef, videoRef string) (model.Post, bool) {
	post, ok := s.store.SharePost(caption, imageRef, videoRef)
	if !ok {
		return model.Post{}, false
	}
	s.feedLimit = s.pageSize
	s.nav.Navigate(navigator.Feed)
	s.journey.Info("shared post %s", post.ID)
	return post, true
}

// GoLive starts a live post and shows it. Nothing is posted while logged
// out.
func (s *Session) GoLive(caption string) (model.Post, bool) {
	if !s.nav.State().Authenticated {
		return model.Post{}, false
	}
	post := s.store.GoLive(caption)
	s.nav.CloseModal()
	s.nav.OpenLiveStream(post.ID)
	s.journey.Info("went live with %s", post.ID)
	return post, true
}

// LivePost resolves the active live post.
func (s *Session) LivePost() (model.Post, bool) {
	id := s.nav.State().LivePostID
	if id == "" {
		return model.Post{}, false
	}
	return s.store.Post(id)
}

// IsHost reports whether the current user broadcasts the active live post.
func (s *Session) IsHost() bool {
	post, ok := s.LivePost()
	return ok && post.UserID == s.store.CurrentUserID()
}

// StopLive ends the host's broadcast and goes back. Viewers cannot stop.
func (s *Session) StopLive() bool {
	if !s.IsHost() {
		return false
	}
	id := s.nav.State().LivePostID
	s.store.EndLive(id)
	s.Back()
	s.journey.Info("ended live %s", id)
	return true
}

// AddLiveComment comments on the active live post.
func (s *Session) AddLiveComment(text string) bool {
	_, ok := s.store.AddLiveComment(s.nav.State().LivePostID, text)
	return ok
}

// SendMessage sends text in the active conversation.
func (s *Session) SendMessage(text string) bool {
	_, ok := s.store.SendMessage(s.nav.State().ConversationID, text)
	return ok
}

// ToggleBookmark flips a bookmark.
func (s *Session) ToggleBookmark(postID string) bool { return s.store.ToggleBookmark(postID) }

// ToggleLike flips the current user's like.
func (s *Session) ToggleLike(postID string) bool { return s.store.ToggleLike(postID) }

// AddComment comments on a post.
func (s *Session) AddComment(postID, text string) bool {
	_, ok := s.store.AddComment(postID, text)
	return ok
}

// AddReply replies to a top-level comment.
func (s *Session) AddReply(postID, commentID, text string) bool {
	_, ok := s.store.AddReply(postID, commentID, text)
	return ok
}

// SaveProfile replaces the user record and shows the saved profile.
func (s *Session) SaveProfile(updated model.User) bool {
	if !s.store.SaveProfile(updated) {
		return false
	}
	s.nav.OpenProfile(updated.ID)
	s.journey.Info("saved profile %s", updated.ID)
	return true
}

func (s *Session) onTransition(t navigator.Transition) {
	if t.From.Screen != t.To.Screen {
		s.status = ""
		s.journey.Info("%s: %s -> %s", t.Action, t.From.Screen, t.To.Screen)
	}
	if !OwnsCamera(t.To.Screen) {
		s.ReleaseCamera()
	}
	if !t.To.StoryOpen() {
		s.closeViewer()
	}
	if t.From.Screen == navigator.Upload && t.To.Screen != navigator.Upload {
		s.draft = Draft{}
	}
}
