package navigator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postSet map[string]bool

func (p postSet) HasPost(id string) bool { return p[id] }

func TestInitialScreenDependsOnAuth(t *testing.T) {
	assert.Equal(t, Feed, New(true).Screen())
	assert.Equal(t, Login, New(false).Screen())
}

func TestOpenProfileThenBackClearsProfile(t *testing.T) {
	n := New(true)
	require.True(t, n.OpenProfile("u3"))
	assert.Equal(t, Profile, n.Screen())
	assert.Equal(t, "u3", n.State().ProfileID)

	n.Back()
	assert.Equal(t, Feed, n.Screen())
	assert.Empty(t, n.State().ProfileID)
}

func TestBackTable(t *testing.T) {
	cases := []struct {
		from Screen
		want Screen
	}{
		{Profile, Feed},
		{Messages, Feed},
		{Notifications, Feed},
		{Reels, Feed},
		{Upload, Feed},
		{Discover, Feed},
		{Chat, Messages},
		{EditProfile, Profile},
		{Settings, Profile},
		{LiveStream, Feed},
		{GoLive, Feed},
		{Feed, Feed},
	}
	for _, tc := range cases {
		t.Run(tc.from.String(), func(t *testing.T) {
			n := New(true)
			require.True(t, n.Navigate(tc.from))
			n.Back()
			assert.Equal(t, tc.want, n.Screen())
		})
	}
}

func TestBackFromChatAlwaysGoesToMessages(t *testing.T) {
	n := New(true)
	n.OpenProfile("u5")
	n.OpenChat("conv1", "u5")
	st := n.State()
	assert.Equal(t, "conv1", st.ConversationID)
	assert.Equal(t, "u5", st.ProfileID)

	n.Back()
	st = n.State()
	assert.Equal(t, Messages, st.Screen)
	assert.Empty(t, st.ConversationID)
	assert.Empty(t, st.ProfileID)
}

func TestMultiHopBackFollowsTable(t *testing.T) {
	n := New(true)
	n.OpenProfile("u1")
	n.Navigate(EditProfile)
	n.Navigate(Settings)
	assert.Equal(t, "u1", n.State().ProfileID)

	n.Back()
	assert.Equal(t, Profile, n.Screen())
	assert.Equal(t, "u1", n.State().ProfileID)

	n.Back()
	assert.Equal(t, Feed, n.Screen())
	assert.Empty(t, n.State().ProfileID)
}

func TestNavigateClearsIDs(t *testing.T) {
	n := New(true)
	n.OpenChat("conv2", "u2")
	n.Navigate(Discover)
	st := n.State()
	assert.Empty(t, st.ProfileID)
	assert.Empty(t, st.ConversationID)

	n.OpenLiveStream("p2")
	n.Navigate(Profile)
	assert.Empty(t, n.State().LivePostID)
}

func TestOpenLiveStreamMissingPostFallsBack(t *testing.T) {
	n := New(true, WithPostLookup(postSet{"p2": true}))
	n.Navigate(Discover)

	assert.False(t, n.OpenLiveStream("gone"))
	assert.Equal(t, Feed, n.Screen())
	assert.Empty(t, n.State().LivePostID)

	assert.True(t, n.OpenLiveStream("p2"))
	assert.Equal(t, LiveStream, n.Screen())
	assert.Equal(t, "p2", n.State().LivePostID)

	n.Back()
	assert.Equal(t, Feed, n.Screen())
	assert.Empty(t, n.State().LivePostID)
}

func TestStoryOverlayIsOrthogonal(t *testing.T) {
	n := New(true)
	n.Navigate(Discover)
	n.OpenStory("u2")
	st := n.State()
	assert.True(t, st.StoryOpen())
	assert.Equal(t, Discover, st.Screen)

	n.SetStoryUser("u4")
	assert.Equal(t, "u4", n.State().StoryUserID)

	n.Back()
	assert.False(t, n.State().StoryOpen())
	assert.Equal(t, Discover, n.Screen(), "back closes the overlay first")
}

func TestModal(t *testing.T) {
	n := New(true)
	n.OpenModal()
	assert.True(t, n.State().ModalOpen)
	n.Navigate(Upload)
	assert.False(t, n.State().ModalOpen)

	n.OpenModal()
	n.CloseModal()
	assert.False(t, n.State().ModalOpen)
}

func TestAuthBranch(t *testing.T) {
	n := New(false)

	assert.False(t, n.Navigate(Feed))
	assert.False(t, n.OpenProfile("u1"))
	n.Back()
	assert.Equal(t, Login, n.Screen())

	n.SwitchAuthView()
	assert.Equal(t, SignUp, n.Screen())
	n.SwitchAuthView()
	assert.Equal(t, Login, n.Screen())

	require.True(t, n.SignUp())
	assert.Equal(t, Feed, n.Screen())
	assert.True(t, n.State().Authenticated)

	assert.False(t, n.Navigate(Login), "auth screens are closed once logged in")
	assert.False(t, n.Login())
}

func TestLogoutReturnsToLogin(t *testing.T) {
	n := New(true)
	n.OpenProfile("u1")
	n.Navigate(Settings)
	n.OpenStory("u1")

	require.True(t, n.Logout())
	assert.Equal(t, State{Screen: Login}, n.State())
}

func TestObserverSeesTransitions(t *testing.T) {
	var seen []Transition
	n := New(true, WithObserver(func(tr Transition) { seen = append(seen, tr) }))

	n.OpenProfile("u3")
	n.Back()
	n.Navigate(Login)

	require.Len(t, seen, 2)
	assert.Equal(t, "open_profile", seen[0].Action)
	assert.Equal(t, Feed, seen[0].From.Screen)
	assert.Equal(t, Profile, seen[0].To.Screen)
	assert.Equal(t, "back", seen[1].Action)
}

func TestParseScreen(t *testing.T) {
	for _, s := range Screens() {
		got, err := ParseScreen(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	got, err := ParseScreen(" livestream ")
	require.NoError(t, err)
	assert.Equal(t, LiveStream, got)

	_, err = ParseScreen("Home")
	assert.Error(t, err)
	assert.Equal(t, "Screen(99)", Screen(99).String())
}

func TestShowsNavBar(t *testing.T) {
	assert.True(t, Feed.ShowsNavBar())
	assert.True(t, Discover.ShowsNavBar())
	assert.True(t, Profile.ShowsNavBar())
	assert.False(t, Chat.ShowsNavBar())
	assert.False(t, LiveStream.ShowsNavBar())
}
