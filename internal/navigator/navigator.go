// internal/navigator/navigator.go
//
// The navigator is the single value that decides which view is drawn: the
// current screen, the ids that screen is correlated with, the story overlay
// and the creation sheet. Back navigation follows a fixed per-screen table
// rather than a history stack.

package navigator

import (
	"go.uber.org/zap"
)

// State is a snapshot of the navigator.
type State struct {
	Screen         Screen
	ProfileID      string
	ConversationID string
	LivePostID     string
	StoryUserID    string
	ModalOpen      bool
	Authenticated  bool
}

// StoryOpen reports whether the story overlay preempts the screen.
func (s State) StoryOpen() bool { return s.StoryUserID != "" }

// Transition describes one applied navigator action.
type Transition struct {
	Action string
	From   State
	To     State
}

// PostLookup resolves live-stream targets.
type PostLookup interface {
	HasPost(id string) bool
}

// Navigator holds the current screen state. It is driven from the UI
// goroutine only.
type Navigator struct {
	state     State
	posts     PostLookup
	logger    *zap.Logger
	observers []func(Transition)
}

// Option customizes a Navigator.
type Option func(*Navigator)

// WithPostLookup makes OpenLiveStream verify that its post still resolves.
func WithPostLookup(p PostLookup) Option {
	return func(n *Navigator) { n.posts = p }
}

// WithLogger attaches a structured logger for transitions.
func WithLogger(l *zap.Logger) Option {
	return func(n *Navigator) {
		if l != nil {
			n.logger = l
		}
	}
}

// WithObserver registers fn to be called after every applied transition.
func WithObserver(fn func(Transition)) Option {
	return func(n *Navigator) {
		if fn != nil {
			n.observers = append(n.observers, fn)
		}
	}
}

// New starts on Feed when authenticated, otherwise on Login.
func New(authenticated bool, opts ...Option) *Navigator {
	n := &Navigator{logger: zap.NewNop()}
	n.state.Authenticated = authenticated
	if authenticated {
		n.state.Screen = Feed
	} else {
		n.state.Screen = Login
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

// State returns the current snapshot.
func (n *Navigator) State() State { return n.state }

// Screen returns the current screen.
func (n *Navigator) Screen() Screen { return n.state.Screen }

// Navigate moves to screen and clears every correlation id the destination
// does not use. Auth screens are only reachable while logged out, and
// nothing else is reachable while logged out; refused moves return false.
func (n *Navigator) Navigate(screen Screen) bool {
	if !n.allowed(screen) {
		n.logger.Debug("navigation refused",
			zap.Stringer("screen", screen),
			zap.Bool("authenticated", n.state.Authenticated))
		return false
	}
	n.apply("navigate", func(s *State) { moveTo(s, screen) })
	return true
}

// OpenProfile shows the profile of userID.
func (n *Navigator) OpenProfile(userID string) bool {
	if !n.state.Authenticated {
		return false
	}
	n.apply("open_profile", func(s *State) {
		moveTo(s, Profile)
		s.ProfileID = userID
	})
	return true
}

// OpenChat shows the conversation with userID.
func (n *Navigator) OpenChat(conversationID, userID string) bool {
	if !n.state.Authenticated {
		return false
	}
	n.apply("open_chat", func(s *State) {
		moveTo(s, Chat)
		s.ConversationID = conversationID
		s.ProfileID = userID
	})
	return true
}

// OpenLiveStream shows the live post postID. When the post no longer
// resolves the navigator falls back to Back and returns false.
func (n *Navigator) OpenLiveStream(postID string) bool {
	if !n.state.Authenticated {
		return false
	}
	if n.posts != nil && !n.posts.HasPost(postID) {
		n.logger.Warn("live stream target missing", zap.String("post_id", postID))
		n.Back()
		return false
	}
	n.apply("open_live", func(s *State) {
		moveTo(s, LiveStream)
		s.LivePostID = postID
	})
	return true
}

// Back applies the inverse transition of the current screen. While the
// story overlay is open it closes the overlay instead. Back does nothing on
// the logged-out branch.
func (n *Navigator) Back() {
	if n.state.StoryOpen() {
		n.CloseStory()
		return
	}
	if !n.state.Authenticated {
		return
	}
	target := BackTarget(n.state.Screen)
	n.apply("back", func(s *State) { moveTo(s, target) })
}

// OpenStory raises the story overlay on userID.
func (n *Navigator) OpenStory(userID string) {
	if userID == "" {
		return
	}
	n.apply("open_story", func(s *State) { s.StoryUserID = userID })
}

// SetStoryUser follows the viewer when it advances onto another user.
func (n *Navigator) SetStoryUser(userID string) {
	if !n.state.StoryOpen() || n.state.StoryUserID == userID {
		return
	}
	n.state.StoryUserID = userID
}

// CloseStory dismisses the story overlay.
func (n *Navigator) CloseStory() {
	if !n.state.StoryOpen() {
		return
	}
	n.apply("close_story", func(s *State) { s.StoryUserID = "" })
}

// OpenModal shows the creation sheet over the current screen.
func (n *Navigator) OpenModal() {
	if !n.state.Authenticated || n.state.ModalOpen {
		return
	}
	n.apply("open_modal", func(s *State) { s.ModalOpen = true })
}

// CloseModal hides the creation sheet.
func (n *Navigator) CloseModal() {
	if !n.state.ModalOpen {
		return
	}
	n.apply("close_modal", func(s *State) { s.ModalOpen = false })
}

// SwitchAuthView toggles between Login and SignUp while logged out.
func (n *Navigator) SwitchAuthView() {
	if n.state.Authenticated {
		return
	}
	next := SignUp
	if n.state.Screen == SignUp {
		next = Login
	}
	n.apply("switch_auth", func(s *State) { moveTo(s, next) })
}

// Login completes authentication and lands on Feed.
func (n *Navigator) Login() bool { return n.authenticate("login") }

// SignUp creates the account and lands on Feed.
func (n *Navigator) SignUp() bool { return n.authenticate("signup") }

// Logout returns to Login and drops every overlay and correlation id.
func (n *Navigator) Logout() bool {
	if !n.state.Authenticated {
		return false
	}
	n.apply("logout", func(s *State) {
		*s = State{Screen: Login}
	})
	return true
}

func (n *Navigator) authenticate(action string) bool {
	if n.state.Authenticated {
		return false
	}
	n.apply(action, func(s *State) {
		s.Authenticated = true
		moveTo(s, Feed)
	})
	return true
}

func (n *Navigator) allowed(screen Screen) bool {
	if screen < 0 || int(screen) >= len(screenNames) {
		return false
	}
	return screen.IsAuth() != n.state.Authenticated
}

func (n *Navigator) apply(action string, change func(*State)) {
	from := n.state
	change(&n.state)
	t := Transition{Action: action, From: from, To: n.state}
	n.logger.Debug("navigation",
		zap.String("action", action),
		zap.Stringer("from", from.Screen),
		zap.Stringer("to", n.state.Screen))
	for _, fn := range n.observers {
		fn(t)
	}
}

// moveTo sets the screen and clears ids the destination does not keep.
// Any screen change dismisses the creation sheet.
func moveTo(s *State, screen Screen) {
	s.Screen = screen
	if !screen.keepsProfile() {
		s.ProfileID = ""
	}
	if screen != Chat {
		s.ConversationID = ""
	}
	if screen != LiveStream {
		s.LivePostID = ""
	}
	s.ModalOpen = false
}
