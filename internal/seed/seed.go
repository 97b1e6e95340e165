// Package seed decodes the fixture collections the store starts from.
package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/dumm/internal/model"
)

//go:embed seed.yaml
var defaultSeedYAML []byte

// Seed holds every collection the entity store is initialised with.
type Seed struct {
	Users         []model.User               `yaml:"users"`
	Posts         []model.Post               `yaml:"posts"`
	Stories       []model.TrayEntry          `yaml:"stories"`
	UserStories   []model.UserStories        `yaml:"user_stories"`
	Conversations []model.Conversation       `yaml:"conversations"`
	Messages      map[string][]model.Message `yaml:"messages"`
	Notifications []model.Notification       `yaml:"notifications"`
	Reels         []model.Reel               `yaml:"reels"`
	Bookmarks     []string                   `yaml:"bookmarks"`
}

// Default returns the embedded demo fixtures.
func Default() (*Seed, error) {
	return Parse(defaultSeedYAML)
}

// MustDefault is Default for callers that cannot recover from a broken binary.
func MustDefault() *Seed {
	s, err := Default()
	if err != nil {
		panic(err)
	}
	return s
}

// Load reads fixtures from a YAML file on disk.
func Load(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("seed: %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes fixtures and checks that entity ids are present and unique.
// Dangling foreign ids are allowed; views treat them as absent entities.
func Parse(data []byte) (*Seed, error) {
	var s Seed
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	if s.Messages == nil {
		s.Messages = map[string][]model.Message{}
	}
	return &s, nil
}

func (s *Seed) validate() error {
	var problems []string
	check := func(kind string, ids []string) {
		seen := make(map[string]struct{}, len(ids))
		for i, id := range ids {
			if strings.TrimSpace(id) == "" {
				problems = append(problems, fmt.Sprintf("%s[%d]: id is required", kind, i))
				continue
			}
			if _, dup := seen[id]; dup {
				problems = append(problems, fmt.Sprintf("%s: duplicate id %q", kind, id))
			}
			seen[id] = struct{}{}
		}
	}
	check("users", collect(s.Users, func(u model.User) string { return u.ID }))
	check("posts", collect(s.Posts, func(p model.Post) string { return p.ID }))
	check("stories", collect(s.Stories, func(t model.TrayEntry) string { return t.ID }))
	check("user_stories", collect(s.UserStories, func(us model.UserStories) string { return us.UserID }))
	check("conversations", collect(s.Conversations, func(c model.Conversation) string { return c.ID }))
	check("notifications", collect(s.Notifications, func(n model.Notification) string { return n.ID }))
	check("reels", collect(s.Reels, func(r model.Reel) string { return r.ID }))
	for _, us := range s.UserStories {
		for _, item := range us.Stories {
			if item.Kind != model.MediaImage && item.Kind != model.MediaVideo {
				problems = append(problems, fmt.Sprintf("story %s: unknown type %q", item.ID, item.Kind))
			}
		}
	}
	if len(problems) > 0 {
		return errors.New("invalid seed: " + strings.Join(problems, "; "))
	}
	return nil
}

func collect[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = id(item)
	}
	return out
}
