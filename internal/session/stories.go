package session

import (
	"go.uber.org/zap"

	"github.com/kingrea/dumm/internal/model"
	"github.com/kingrea/dumm/internal/playback"
)

// StoryToken tags a scheduled tick. Viewer changes on every open, Gen on
// every story change inside one viewer.
type StoryToken struct {
	Viewer uint64
	Gen    uint64
}

// OpenStory raises the story overlay on userID. Nothing opens when the
// user has no playable story.
func (s *Session) OpenStory(userID string) bool {
	s.closeViewer()
	v, ok := playback.Open(s.store, userID,
		playback.WithClock(s.now),
		playback.WithDefaultDuration(s.storyDuration))
	if !ok {
		s.logger.Debug("story not playable", zap.String("user_id", userID))
		return false
	}
	s.viewerSeq++
	s.viewer = v
	s.nav.OpenStory(userID)
	return true
}

// CloseStory dismisses the story overlay.
func (s *Session) CloseStory() {
	s.closeViewer()
	s.nav.CloseStory()
}

// AddStory posts a new story for the current user and opens it.
func (s *Session) AddStory() model.StoryItem {
	item := s.store.AddStory(s.storyDuration)
	s.OpenStory(s.store.CurrentUserID())
	s.journey.Info("added story %s", item.ID)
	return item
}

// AddStoryComment comments on one story item.
func (s *Session) AddStoryComment(userID, storyID, text string) bool {
	_, ok := s.store.AddStoryComment(userID, storyID, text)
	return ok
}

// CommentOnCurrentStory comments on the item being shown.
func (s *Session) CommentOnCurrentStory(text string) bool {
	f, ok := s.StoryFrame()
	if !ok {
		return false
	}
	return s.AddStoryComment(f.User.ID, f.Item.ID, text)
}

// Viewer is the open story viewer, or nil.
func (s *Session) Viewer() *playback.Viewer { return s.viewer }

// StoryToken identifies the timer that a new tick belongs to.
func (s *Session) StoryToken() StoryToken {
	if s.viewer == nil {
		return StoryToken{}
	}
	return StoryToken{Viewer: s.viewerSeq, Gen: s.viewer.Generation()}
}

// StoryFrame resolves what the overlay draws. A frame that no longer
// resolves closes the overlay.
func (s *Session) StoryFrame() (playback.Frame, bool) {
	if s.viewer == nil {
		return playback.Frame{}, false
	}
	f, ok := s.viewer.Current()
	if !ok {
		s.finishStory("unresolved")
		return playback.Frame{}, false
	}
	return f, true
}

// StoryTick delivers a scheduled tick. Ticks from a replaced viewer or an
// older generation are stale.
func (s *Session) StoryTick(tok StoryToken) playback.Event {
	if s.viewer == nil || tok.Viewer != s.viewerSeq {
		return playback.EventStale
	}
	return s.follow(s.viewer.Tick(tok.Gen))
}

// StoryNext skips forward.
func (s *Session) StoryNext() playback.Event {
	if s.viewer == nil {
		return playback.EventClosed
	}
	return s.follow(s.viewer.Next())
}

// StoryPrev skips back.
func (s *Session) StoryPrev() playback.Event {
	if s.viewer == nil {
		return playback.EventClosed
	}
	return s.follow(s.viewer.Prev())
}

// StoryTap handles a tap at column x of a viewer width columns wide.
func (s *Session) StoryTap(x, width int) playback.Event {
	if s.viewer == nil {
		return playback.EventClosed
	}
	return s.follow(s.viewer.Tap(x, width))
}

// StoryPress pauses while held.
func (s *Session) StoryPress() {
	if s.viewer != nil {
		s.viewer.Press()
	}
}

// StoryRelease resumes after StoryPress.
func (s *Session) StoryRelease() {
	if s.viewer != nil {
		s.viewer.Release()
	}
}

// StoryToggleMute flips audio on video items.
func (s *Session) StoryToggleMute() bool {
	return s.viewer != nil && s.viewer.ToggleMute()
}

func (s *Session) follow(ev playback.Event) playback.Event {
	switch ev {
	case playback.EventClosed:
		s.finishStory("finished")
	case playback.EventAdvanced:
		s.nav.SetStoryUser(s.viewer.UserID())
	}
	return ev
}

func (s *Session) finishStory(reason string) {
	s.logger.Info("story viewer closed", zap.String("reason", reason))
	s.CloseStory()
}

func (s *Session) closeViewer() {
	if s.viewer != nil {
		s.viewer.Close()
		s.viewer = nil
	}
}
