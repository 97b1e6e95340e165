package store

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/kingrea/dumm/internal/model"
)

// searchIndex adapts posts to fuzzy.Source. Each entry is the caption
// followed by the author's username so either can match.
type searchIndex struct {
	posts []model.Post
	keys  []string
}

func (si searchIndex) String(i int) string { return si.keys[i] }
func (si searchIndex) Len() int            { return len(si.keys) }

// Search returns posts whose caption or author fuzzy-matches query, best
// match first. An empty query returns the whole feed.
func (s *Store) Search(query string) []model.Post {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Posts()
	}
	idx := searchIndex{posts: s.posts, keys: make([]string, len(s.posts))}
	for i, p := range s.posts {
		author := ""
		if u, ok := s.User(p.UserID); ok {
			author = u.Username
		}
		idx.keys[i] = strings.ToLower(p.Caption + " " + author)
	}
	matches := fuzzy.FindFrom(strings.ToLower(query), idx)
	out := make([]model.Post, 0, len(matches))
	for _, m := range matches {
		out = append(out, idx.posts[m.Index].Clone())
	}
	return out
}
