package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/dumm/internal/model"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeSource struct {
	stories []model.UserStories
	users   map[string]model.User
}

func (f *fakeSource) UserStories() []model.UserStories { return f.stories }

func (f *fakeSource) User(id string) (model.User, bool) {
	u, ok := f.users[id]
	return u, ok
}

func images(prefix string, n int, d time.Duration) []model.StoryItem {
	out := make([]model.StoryItem, n)
	for i := range out {
		out[i] = model.StoryItem{ID: prefix + string(rune('a'+i)), Kind: model.MediaImage, Duration: d}
	}
	return out
}

func newSource() *fakeSource {
	return &fakeSource{
		stories: []model.UserStories{
			{UserID: "u1", Stories: images("u1", 3, 5*time.Second)},
			{UserID: "u2", Stories: []model.StoryItem{{ID: "v1", Kind: model.MediaVideo, Duration: 10 * time.Second}}},
			{UserID: "u3", Stories: images("u3", 2, 4*time.Second)},
		},
		users: map[string]model.User{
			"u1": {ID: "u1"},
			"u2": {ID: "u2"},
			"u3": {ID: "u3"},
		},
	}
}

func open(t *testing.T, src Source, userID string) (*Viewer, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	v, ok := Open(src, userID, WithClock(clock.Now))
	require.True(t, ok)
	return v, clock
}

func TestNItemsAutoAdvanceNTimes(t *testing.T) {
	v, clock := open(t, newSource(), "u1")
	start := clock.Now()

	for i := 0; i < 3; i++ {
		f, ok := v.Current()
		require.True(t, ok)
		assert.Equal(t, "u1", f.User.ID)
		assert.Equal(t, i, f.StoryIndex)

		// Sub-duration ticks never advance.
		clock.Advance(4 * time.Second)
		assert.Equal(t, EventNone, v.Tick(v.Generation()))
		clock.Advance(time.Second)
		assert.Equal(t, EventAdvanced, v.Tick(v.Generation()))
	}

	assert.Equal(t, 3, v.Advances())
	assert.Equal(t, "u2", v.UserID(), "moved on to the next user")
	assert.Equal(t, 15*time.Second, clock.Now().Sub(start))
}

func TestLastItemOfLastUserCloses(t *testing.T) {
	v, clock := open(t, newSource(), "u3")

	clock.Advance(4 * time.Second)
	require.Equal(t, EventAdvanced, v.Tick(v.Generation()))
	clock.Advance(4 * time.Second)
	assert.Equal(t, EventClosed, v.Tick(v.Generation()))
	assert.True(t, v.Closed())
	assert.Equal(t, 2, v.Advances())

	_, ok := v.Current()
	assert.False(t, ok)
}

func TestPauseKeepsProgress(t *testing.T) {
	v, clock := open(t, newSource(), "u1")

	clock.Advance(2 * time.Second)
	v.Press()
	assert.InDelta(t, 0.4, v.Progress(), 1e-9)

	clock.Advance(time.Minute)
	assert.Equal(t, EventNone, v.Tick(v.Generation()))
	assert.InDelta(t, 0.4, v.Progress(), 1e-9)

	v.Release()
	assert.InDelta(t, float64(3*time.Second), float64(v.Remaining()), float64(time.Millisecond))

	clock.Advance(3*time.Second + time.Millisecond)
	assert.Equal(t, EventAdvanced, v.Tick(v.Generation()))
}

func TestStaleTicksAreDropped(t *testing.T) {
	v, clock := open(t, newSource(), "u1")
	old := v.Generation()

	v.Next()
	clock.Advance(5 * time.Second)
	assert.Equal(t, EventStale, v.Tick(old))

	f, _ := v.Current()
	assert.Equal(t, 1, f.StoryIndex, "stale tick did not advance")

	paused := v.Generation()
	v.Press()
	v.Release()
	assert.Equal(t, EventStale, v.Tick(paused))
}

func TestPrev(t *testing.T) {
	v, _ := open(t, newSource(), "u1")
	assert.Equal(t, EventNone, v.Prev(), "nothing before the first story")

	v, _ = open(t, newSource(), "u3")
	require.Equal(t, EventAdvanced, v.Prev())
	f, ok := v.Current()
	require.True(t, ok)
	assert.Equal(t, "u2", f.User.ID)
	assert.Equal(t, 0, f.StoryIndex)

	require.Equal(t, EventAdvanced, v.Prev())
	f, _ = v.Current()
	assert.Equal(t, "u1", f.User.ID)
	assert.Equal(t, 2, f.StoryIndex, "previous user's last item")
}

func TestTapThirds(t *testing.T) {
	v, _ := open(t, newSource(), "u1")

	assert.Equal(t, EventNone, v.Tap(45, 90))
	assert.Equal(t, EventAdvanced, v.Tap(80, 90))
	f, _ := v.Current()
	assert.Equal(t, 1, f.StoryIndex)

	assert.Equal(t, EventAdvanced, v.Tap(5, 90))
	f, _ = v.Current()
	assert.Equal(t, 0, f.StoryIndex)

	v.Press()
	assert.Equal(t, EventNone, v.Tap(80, 90), "tap while held only resumes")
	assert.False(t, v.Paused())
	f, _ = v.Current()
	assert.Equal(t, 0, f.StoryIndex)
}

func TestMuteAffectsVideoOnly(t *testing.T) {
	v, _ := open(t, newSource(), "u1")
	assert.True(t, v.Muted())
	assert.False(t, v.ToggleMute())
	assert.True(t, v.Muted())

	v, _ = open(t, newSource(), "u2")
	assert.True(t, v.ToggleMute())
	assert.False(t, v.Muted())
}

func TestLoopVideo(t *testing.T) {
	v, _ := open(t, newSource(), "u2")
	assert.True(t, v.LoopVideo(4*time.Second))
	assert.False(t, v.LoopVideo(30*time.Second))

	v, _ = open(t, newSource(), "u1")
	assert.False(t, v.LoopVideo(time.Second), "images never loop")
}

func TestUnresolvableClosesViewer(t *testing.T) {
	src := newSource()
	src.stories = append(src.stories, model.UserStories{UserID: "empty"})
	src.users["empty"] = model.User{ID: "empty"}

	_, ok := Open(src, "empty")
	assert.False(t, ok)
	_, ok = Open(src, "nobody")
	assert.False(t, ok)

	delete(src.users, "u2")
	v, _ := open(t, src, "u1")
	v.Next()
	v.Next()
	assert.Equal(t, EventClosed, v.Next(), "u2 has no user record")
	assert.True(t, v.Closed())
}

func TestDefaultDurationFillsMissingDuration(t *testing.T) {
	src := &fakeSource{
		stories: []model.UserStories{{UserID: "u1", Stories: images("x", 1, 0)}},
		users:   map[string]model.User{"u1": {ID: "u1"}},
	}
	clock := &fakeClock{t: time.Unix(0, 0)}
	v, ok := Open(src, "u1", WithClock(clock.Now), WithDefaultDuration(2*time.Second))
	require.True(t, ok)
	assert.Equal(t, 2*time.Second, v.Duration())

	clock.Advance(2 * time.Second)
	assert.Equal(t, EventClosed, v.Tick(v.Generation()))
}
