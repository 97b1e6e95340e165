package session

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kingrea/dumm/internal/logbook"
	"github.com/kingrea/dumm/internal/media"
	"github.com/kingrea/dumm/internal/model"
	"github.com/kingrea/dumm/internal/navigator"
	"github.com/kingrea/dumm/internal/playback"
	"github.com/kingrea/dumm/internal/seed"
	"github.com/kingrea/dumm/internal/store"
)

type clock struct{ t time.Time }

func newClock() *clock {
	return &clock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func (c *clock) opts(o Options) Options {
	o.Clock = c.now
	return o
}

func defaultOpts(user string) Options {
	return Options{CurrentUserID: user, Authenticated: true}
}

func newSession(t *testing.T, o Options) *Session {
	t.Helper()
	sd, err := seed.Default()
	require.NoError(t, err)
	if o.IDs == nil {
		o.IDs = store.NewSequenceGenerator()
	}
	return New(sd, o)
}

type fakeStream struct {
	chunks [][]byte
	closed int
}

func (f *fakeStream) ID() string { return "cam" }

func (f *fakeStream) Next(context.Context) ([]byte, error) {
	if len(f.chunks) == 0 {
		return nil, io.EOF
	}
	c := f.chunks[0]
	f.chunks = f.chunks[1:]
	return c, nil
}

func (f *fakeStream) Close() error { f.closed++; return nil }

type fakeDevice struct {
	stream *fakeStream
	err    error
}

func (d fakeDevice) Acquire(context.Context, media.Constraints) (media.Stream, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.stream, nil
}

func TestShareHelloPostNavigatesToFeed(t *testing.T) {
	s := newSession(t, defaultOpts("u1"))
	s.Navigate(navigator.Upload)

	post, ok := s.SharePost("Hello", "file:///tmp/hello.png", "")
	require.True(t, ok)

	feed := s.Store().Posts()
	assert.Equal(t, post.ID, feed[0].ID)
	assert.Equal(t, "Hello", feed[0].Caption)
	assert.Zero(t, feed[0].Likes)
	assert.Empty(t, feed[0].Comments)
	assert.Equal(t, "u1", feed[0].UserID)
	assert.Equal(t, navigator.Feed, s.Screen())
}

func TestGoLiveThenStop(t *testing.T) {
	s := newSession(t, defaultOpts("u1"))
	s.OpenModal()

	post, ok := s.GoLive("Live now")
	require.True(t, ok)
	st := s.State()
	assert.True(t, post.IsLive)
	assert.Equal(t, 1, post.ViewerCount)
	assert.Equal(t, navigator.LiveStream, st.Screen)
	assert.Equal(t, post.ID, st.LivePostID)
	assert.False(t, st.ModalOpen)
	assert.Equal(t, post.ID, s.Store().Posts()[0].ID)
	assert.True(t, s.IsHost())

	require.True(t, s.StopLive())
	st = s.State()
	assert.Equal(t, navigator.Feed, st.Screen)
	assert.Empty(t, st.LivePostID)
	ended, _ := s.Store().Post(post.ID)
	assert.False(t, ended.IsLive)
}

func TestViewersCannotStopLive(t *testing.T) {
	s := newSession(t, defaultOpts("u1"))
	require.True(t, s.OpenLiveStream("p2"))
	assert.False(t, s.IsHost())
	assert.False(t, s.StopLive())
	assert.Equal(t, navigator.LiveStream, s.Screen())

	require.True(t, s.AddLiveComment("Hi from the feed"))
	live, _ := s.LivePost()
	assert.Equal(t, "Hi from the feed", live.LiveComments[len(live.LiveComments)-1].Text)
}

func TestOpenLiveStreamMissingPostGoesBack(t *testing.T) {
	s := newSession(t, defaultOpts("u1"))
	s.Navigate(navigator.Discover)
	assert.False(t, s.OpenLiveStream("gone"))
	assert.Equal(t, navigator.Feed, s.Screen())
}

func TestMissingLivePostClosesStoryTimer(t *testing.T) {
	c := newClock()
	s := newSession(t, c.opts(defaultOpts("u1")))
	require.True(t, s.OpenStory("u4"))
	tok := s.StoryToken()

	assert.False(t, s.OpenLiveStream("gone"))
	assert.False(t, s.State().StoryOpen())
	assert.Nil(t, s.Viewer())
	assert.Equal(t, navigator.Feed, s.Screen())

	c.advance(10 * time.Second)
	assert.Equal(t, playback.EventStale, s.StoryTick(tok))
	_, ok := s.StoryFrame()
	assert.False(t, ok)
}

func TestGoLiveRefusedWhileLoggedOut(t *testing.T) {
	s := newSession(t, Options{CurrentUserID: "u1"})
	before := len(s.Store().Posts())

	_, ok := s.GoLive("nobody sees this")
	assert.False(t, ok)
	assert.Len(t, s.Store().Posts(), before)
	assert.Equal(t, navigator.Login, s.Screen())
}

func TestModalChoices(t *testing.T) {
	s := newSession(t, defaultOpts("u1"))
	s.Choose(ChoosePost)
	assert.Equal(t, navigator.Feed, s.Screen(), "closed modal ignores choices")

	s.OpenModal()
	s.Choose(ChooseLive)
	assert.Equal(t, navigator.GoLive, s.Screen())
	assert.False(t, s.State().ModalOpen)

	s.Back()
	s.OpenModal()
	s.CloseModal()
	assert.Equal(t, navigator.Feed, s.Screen())
}

func TestOpenChatMarksReadAndSends(t *testing.T) {
	s := newSession(t, defaultOpts("u1"))
	require.True(t, s.OpenChat("conv1"))
	st := s.State()
	assert.Equal(t, "conv1", st.ConversationID)
	assert.Equal(t, "u5", st.ProfileID)

	conv, _ := s.Store().Conversation("conv1")
	assert.Zero(t, conv.UnreadCount)

	require.True(t, s.SendMessage("On my way"))
	msgs := s.ChatMessages()
	assert.Equal(t, "On my way", msgs[len(msgs)-1].Text)
	assert.False(t, s.SendMessage("  "))

	peer, ok := s.ChatPeer()
	require.True(t, ok)
	assert.Equal(t, "specialist", peer.Username)

	s.Back()
	assert.Equal(t, navigator.Messages, s.Screen())
	assert.False(t, s.OpenChat("missing"))
}

func TestAddStoryOpensViewer(t *testing.T) {
	s := newSession(t, defaultOpts("u3"))
	item := s.AddStory()

	st := s.State()
	assert.Equal(t, "u3", st.StoryUserID)
	assert.False(t, s.ShowNavBar())

	f, ok := s.StoryFrame()
	require.True(t, ok)
	assert.Equal(t, item.ID, f.Item.ID)
	assert.Equal(t, "u3", s.Store().Tray()[0].UserID)
}

func TestStoryTicksAdvanceAcrossUsers(t *testing.T) {
	c := newClock()
	s := newSession(t, c.opts(defaultOpts("u1")))
	require.True(t, s.OpenStory("u4"))

	for i := 0; i < 2; i++ {
		tok := s.StoryToken()
		c.advance(5 * time.Second)
		require.Equal(t, playback.EventAdvanced, s.StoryTick(tok))
	}
	assert.Equal(t, "u6", s.State().StoryUserID)
	assert.Equal(t, 2, s.Viewer().Advances())
}

func TestStoryTickStaleAfterReopen(t *testing.T) {
	c := newClock()
	s := newSession(t, c.opts(defaultOpts("u1")))
	require.True(t, s.OpenStory("u2"))
	old := s.StoryToken()

	require.True(t, s.OpenStory("u4"))
	c.advance(5 * time.Second)
	assert.Equal(t, playback.EventStale, s.StoryTick(old))

	f, ok := s.StoryFrame()
	require.True(t, ok)
	assert.Equal(t, "s3-1", f.Item.ID)
}

func TestLastStoryClosesOverlay(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	c := newClock()
	o := c.opts(defaultOpts("u1"))
	o.Logger = zap.New(core)
	s := newSession(t, o)
	s.Navigate(navigator.Discover)

	require.True(t, s.OpenStory("u5"))
	tok := s.StoryToken()
	c.advance(5 * time.Second)
	assert.Equal(t, playback.EventClosed, s.StoryTick(tok))

	assert.False(t, s.State().StoryOpen())
	assert.Nil(t, s.Viewer())
	assert.Equal(t, navigator.Discover, s.Screen())
	assert.Equal(t, 1, logs.FilterMessage("story viewer closed").Len())
}

func TestStoryCommentsAndBack(t *testing.T) {
	s := newSession(t, defaultOpts("u1"))
	before := s.Store().UserStories()
	assert.False(t, s.AddStoryComment("u2", "s_missing", "hi"))
	assert.Equal(t, before, s.Store().UserStories())

	require.True(t, s.OpenStory("u2"))
	require.True(t, s.CommentOnCurrentStory("Lovely"))
	us, _ := s.Store().StoriesFor("u2")
	assert.Len(t, us.Stories[0].Comments, 2)

	s.Back()
	assert.False(t, s.State().StoryOpen())
	assert.Equal(t, navigator.Feed, s.Screen())
	assert.False(t, s.OpenStory("u3"), "u3 has no stories")
}

func TestSaveProfileShowsProfile(t *testing.T) {
	s := newSession(t, defaultOpts("u1"))
	s.OpenMyProfile()
	s.Navigate(navigator.EditProfile)

	u, _ := s.Store().CurrentUser()
	u.Bio = "New bio"
	require.True(t, s.SaveProfile(u))
	assert.Equal(t, navigator.Profile, s.Screen())
	got, _ := s.ProfileUser()
	assert.Equal(t, "New bio", got.Bio)
}

func TestProfileTabs(t *testing.T) {
	s := newSession(t, defaultOpts("u1"))
	s.OpenMyProfile()
	assert.Len(t, s.ProfilePosts(), 2)
	saved := s.SavedPosts()
	require.Len(t, saved, 1)
	assert.Equal(t, "p2", saved[0].ID)

	s.OpenProfile("u3")
	assert.False(t, s.IsOwnProfile())
	assert.Nil(t, s.SavedPosts())
}

func TestFeedPagination(t *testing.T) {
	s := newSession(t, Options{CurrentUserID: "u1", Authenticated: true, PageSize: 4})
	assert.Len(t, s.Feed(), 4)
	require.True(t, s.HasMoreFeed())
	require.True(t, s.LoadMore())
	assert.Len(t, s.Feed(), 6)
	assert.False(t, s.LoadMore())

	s.SharePost("fresh", "file:///a.png", "")
	feed := s.Feed()
	assert.Len(t, feed, 4, "sharing resets to the first page")
	assert.Equal(t, "fresh", feed[0].Caption)
}

func TestActivities(t *testing.T) {
	s := newSession(t, defaultOpts("u1"))
	acts := s.Activities()
	require.Len(t, acts, 5)
	assert.Equal(t, "started following you.", acts[0].Text)
	assert.Nil(t, acts[0].Post)
	assert.Equal(t, "liked your post.", acts[1].Text)
	require.NotNil(t, acts[1].Post)
	assert.Equal(t, "p1", acts[1].Post.ID)
	assert.Equal(t, "commented on your post.", acts[2].Text)
}

func TestDiscoverColumns(t *testing.T) {
	s := newSession(t, defaultOpts("u1"))
	left, right := s.DiscoverColumns("")
	assert.Len(t, left, 3)
	assert.Len(t, right, 3)
	assert.Equal(t, "p1", left[0].ID)
	assert.Equal(t, "p6", right[0].ID)
}

func TestReels(t *testing.T) {
	s := newSession(t, defaultOpts("u1"))
	r, idx, ok := s.ActiveReel()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.False(t, s.PrevReel())

	s.ToggleReelPlay()
	assert.False(t, s.ReelPlaying())
	require.True(t, s.NextReel())
	assert.True(t, s.ReelPlaying(), "a newly active reel plays")

	assert.True(t, s.ToggleReelLike(r.ID))
	assert.Equal(t, r.Likes+1, s.ReelLikes(r))
}

func TestCameraReleasedOnLeavingScreen(t *testing.T) {
	s := newSession(t, defaultOpts("u1"))
	stream := &fakeStream{}
	s.OpenModal()
	s.Choose(ChooseLive)

	scoped, err := s.AcquireCamera(context.Background(), fakeDevice{stream: stream})
	s.AttachCamera(scoped, err)
	require.NotNil(t, s.Camera())

	s.Back()
	assert.Nil(t, s.Camera())
	assert.Equal(t, 1, stream.closed)
}

func TestLateCameraIsReleased(t *testing.T) {
	s := newSession(t, defaultOpts("u1"))
	stream := &fakeStream{}
	scoped, err := s.AcquireCamera(context.Background(), fakeDevice{stream: stream})
	s.AttachCamera(scoped, err)
	assert.Nil(t, s.Camera(), "feed has no preview")
	assert.Equal(t, 1, stream.closed)
}

func TestCameraDeniedSetsStatus(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	o := defaultOpts("u1")
	o.Logger = zap.New(core)
	s := newSession(t, o)
	s.Navigate(navigator.GoLive)

	scoped, err := s.AcquireCamera(context.Background(), fakeDevice{err: media.ErrPermissionDenied})
	s.AttachCamera(scoped, err)
	assert.Nil(t, s.Camera())
	assert.Equal(t, "Camera and microphone access was denied.", s.Status())
	assert.Equal(t, 1, logs.FilterMessage("media access failed").Len())

	s.Back()
	assert.Empty(t, s.Status())
}

func TestUploadSelectAndShare(t *testing.T) {
	s := newSession(t, defaultOpts("u1"))
	s.Navigate(navigator.Upload)
	assert.False(t, s.CanShare())
	_, ok := s.ShareDraft()
	assert.False(t, ok)

	path := filepath.Join(t.TempDir(), "pic.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o644))
	require.NoError(t, s.SelectFile(path))
	s.SetCaption("Sunny")
	assert.True(t, s.CanShare())
	assert.True(t, s.Dirty())

	post, ok := s.ShareDraft()
	require.True(t, ok)
	assert.Equal(t, "Sunny", post.Caption)
	assert.False(t, post.HasVideo())
	assert.Equal(t, navigator.Feed, s.Screen())
	assert.False(t, s.Dirty(), "leaving Upload clears the draft")
}

func TestUploadRejectsUnsupportedFile(t *testing.T) {
	s := newSession(t, defaultOpts("u1"))
	s.Navigate(navigator.Upload)
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	assert.ErrorIs(t, s.SelectFile(path), media.ErrUnsupportedType)
	assert.False(t, s.CanShare())
	assert.NotEmpty(t, s.Status())
}

func TestUploadRecording(t *testing.T) {
	s := newSession(t, defaultOpts("u1"))
	s.Navigate(navigator.Upload)
	assert.ErrorIs(t, s.StartRecording(), media.ErrReleased)

	stream := &fakeStream{chunks: [][]byte{[]byte("a"), []byte("b")}}
	scoped, err := s.AcquireCamera(context.Background(), fakeDevice{stream: stream})
	s.AttachCamera(scoped, err)

	require.NoError(t, s.StartRecording())
	assert.True(t, s.Draft().Recording())
	rec := s.RecordingStream()
	require.NotNil(t, rec)
	for {
		chunk, err := rec.Next(context.Background())
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		require.NoError(t, s.RecordChunk(chunk))
	}
	v, err := s.StopRecording()
	require.NoError(t, err)
	assert.Equal(t, []byte("ab"), v.Data)
	assert.Equal(t, model.MediaVideo, s.Draft().Kind())

	post, ok := s.ShareDraft()
	require.True(t, ok)
	assert.Equal(t, v.Ref, post.VideoURL)
	assert.True(t, strings.HasSuffix(post.ImageURL, "#t=1"))
	assert.Equal(t, 1, stream.closed)
}

func TestDiscardDraftGoesBack(t *testing.T) {
	s := newSession(t, defaultOpts("u1"))
	s.Navigate(navigator.Upload)
	s.SetCaption("half written")
	require.True(t, s.Dirty())

	s.DiscardDraft()
	assert.Equal(t, navigator.Feed, s.Screen())
	assert.False(t, s.Dirty())
	assert.Len(t, s.Store().Posts(), 6)
}

func TestLogoutClosesEverything(t *testing.T) {
	s := newSession(t, defaultOpts("u1"))
	s.OpenMyProfile()
	s.Navigate(navigator.Settings)
	s.OpenStory("u1")

	require.True(t, s.Logout())
	assert.Equal(t, navigator.State{Screen: navigator.Login}, s.State())
	assert.Nil(t, s.Viewer())
	assert.False(t, s.ShowNavBar())

	s.SwitchAuthView()
	require.True(t, s.SignUp())
	assert.Equal(t, navigator.Feed, s.Screen())
}

func TestJourneyRecordsScreenChanges(t *testing.T) {
	book, err := logbook.New(filepath.Join(t.TempDir(), "journey.log"))
	require.NoError(t, err)
	o := defaultOpts("u1")
	o.Journey = book
	s := newSession(t, o)

	s.OpenProfile("u3")
	s.Back()

	lines, total := book.Tail(10)
	require.Equal(t, 2, total)
	assert.Equal(t, "open_profile: Feed -> Profile", logbook.Message(lines[0]))
	assert.Equal(t, "back: Profile -> Feed", logbook.Message(lines[1]))
}
