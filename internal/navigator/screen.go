package navigator

import (
	"fmt"
	"strings"
)

// Screen identifies which top-level view is composed.
type Screen int

const (
	Feed Screen = iota
	Profile
	Messages
	Chat
	Notifications
	Discover
	EditProfile
	Login
	SignUp
	Settings
	Reels
	Upload
	GoLive
	LiveStream
)

var screenNames = [...]string{
	Feed:          "Feed",
	Profile:       "Profile",
	Messages:      "Messages",
	Chat:          "Chat",
	Notifications: "Notifications",
	Discover:      "Discover",
	EditProfile:   "EditProfile",
	Login:         "Login",
	SignUp:        "SignUp",
	Settings:      "Settings",
	Reels:         "Reels",
	Upload:        "Upload",
	GoLive:        "GoLive",
	LiveStream:    "LiveStream",
}

// Screens lists every screen in declaration order.
func Screens() []Screen {
	out := make([]Screen, len(screenNames))
	for i := range screenNames {
		out[i] = Screen(i)
	}
	return out
}

func (s Screen) String() string {
	if s < 0 || int(s) >= len(screenNames) {
		return fmt.Sprintf("Screen(%d)", int(s))
	}
	return screenNames[s]
}

// ParseScreen resolves a screen by name, ignoring case.
func ParseScreen(name string) (Screen, error) {
	for i, n := range screenNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Screen(i), nil
		}
	}
	return Feed, fmt.Errorf("unknown screen %q", name)
}

// IsAuth reports whether s belongs to the unauthenticated branch.
func (s Screen) IsAuth() bool { return s == Login || s == SignUp }

// keepsProfile lists destinations that retain the active profile id.
func (s Screen) keepsProfile() bool {
	return s == Profile || s == EditProfile || s == Settings
}

// backTable is the fixed inverse transition per screen. Screens missing
// from the table go back to Feed.
var backTable = map[Screen]Screen{
	Profile:       Feed,
	Messages:      Feed,
	Notifications: Feed,
	Reels:         Feed,
	Upload:        Feed,
	Discover:      Feed,
	Chat:          Messages,
	EditProfile:   Profile,
	Settings:      Profile,
	LiveStream:    Feed,
	GoLive:        Feed,
}

// BackTarget returns where Back leads from s.
func BackTarget(s Screen) Screen {
	if to, ok := backTable[s]; ok {
		return to
	}
	return Feed
}

// hiddenNavBar lists screens drawn without the bottom navigation bar.
var hiddenNavBar = map[Screen]bool{
	Reels:         true,
	Upload:        true,
	Chat:          true,
	Login:         true,
	SignUp:        true,
	Messages:      true,
	Notifications: true,
	EditProfile:   true,
	Settings:      true,
	GoLive:        true,
	LiveStream:    true,
}

// ShowsNavBar reports whether the bottom navigation bar is drawn on s.
func (s Screen) ShowsNavBar() bool { return !hiddenNavBar[s] }
