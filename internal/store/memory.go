package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/models"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is a process-local Store used for local runs and tests.
// It hands out copies, so callers never share state with the store.
type MemoryStore struct {
	mu sync.Mutex

	users    map[int]models.User
	posts    map[int]models.Post
	comments map[int]models.Comment

	lastUserID    int
	lastPostID    int
	lastCommentID int

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[int]models.User),
		posts:    make(map[int]models.Post),
		comments: make(map[int]models.Comment),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return ErrDuplicate
		}
	}

	if user.ID == 0 {
		s.lastUserID++
		user.ID = s.lastUserID
	} else if _, exists := s.users[user.ID]; exists {
		return ErrDuplicate
	} else if user.ID > s.lastUserID {
		s.lastUserID = user.ID
	}
	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdateUserSettings(_ context.Context, userID int, autoReplyEnabled bool, delaySeconds int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	u.AutoReplyEnabled = autoReplyEnabled
	u.AutoReplyDelay = delaySeconds
	u.UpdatedAt = s.now()
	s.users[userID] = u
	return &u, nil
}

func (s *MemoryStore) UpdateUserProfile(_ context.Context, userID int, username, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	for id, other := range s.users {
		if id != userID && (other.Username == username || other.Email == email) {
			return nil, ErrDuplicate
		}
	}
	u.Username = username
	u.Email = email
	u.UpdatedAt = s.now()
	s.users[userID] = u
	return &u, nil
}

func (s *MemoryStore) CreatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[post.UserID]; !ok {
		return ErrNotFound
	}
	if post.ID == 0 {
		s.lastPostID++
		post.ID = s.lastPostID
	} else if _, exists := s.posts[post.ID]; exists {
		return ErrDuplicate
	} else if post.ID > s.lastPostID {
		s.lastPostID = post.ID
	}
	now := s.now()
	post.CreatedAt, post.UpdatedAt = now, now
	post.User = nil
	s.posts[post.ID] = *post
	return nil
}

func (s *MemoryStore) GetPost(_ context.Context, id int) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) ListPosts(_ context.Context, offset, limit int) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	visible := []models.Post{}
	for _, p := range s.posts {
		if !p.IsBlocked {
			visible = append(visible, p)
		}
	}
	sort.Slice(visible, func(i, j int) bool { return visible[i].ID < visible[j].ID })

	if offset >= len(visible) {
		return []models.Post{}, nil
	}
	visible = visible[offset:]
	if limit >= 0 && limit < len(visible) {
		visible = visible[:limit]
	}
	return visible, nil
}

func (s *MemoryStore) ListPostsByUser(_ context.Context, userID int) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := []models.Post{}
	for _, p := range s.posts {
		if p.UserID == userID && !p.IsBlocked {
			posts = append(posts, p)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts, nil
}

func (s *MemoryStore) UpdatePost(_ context.Context, id int, title, content string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Title = title
	p.Content = content
	p.UpdatedAt = s.now()
	s.posts[id] = p
	return &p, nil
}

func (s *MemoryStore) DeletePost(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return ErrNotFound
	}
	delete(s.posts, id)
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
	return nil
}

func (s *MemoryStore) BlockPost(_ context.Context, id int) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.IsBlocked = true
	p.UpdatedAt = s.now()
	s.posts[id] = p
	return &p, nil
}

func (s *MemoryStore) CreateComment(_ context.Context, content string, postID, userID int) (*models.Comment, error) {
	return s.insertComment(models.Comment{Content: content, PostID: postID, UserID: userID})
}

func (s *MemoryStore) CreateReply(_ context.Context, content string, postID, userID, parentID int) (*models.Comment, error) {
	return s.insertComment(models.Comment{Content: content, PostID: postID, UserID: userID, ParentCommentID: &parentID})
}

func (s *MemoryStore) insertComment(c models.Comment) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Mirror the foreign keys of the relational schema.
	if _, ok := s.posts[c.PostID]; !ok {
		return nil, ErrNotFound
	}
	if _, ok := s.users[c.UserID]; !ok {
		return nil, ErrNotFound
	}
	if c.ParentCommentID != nil {
		if _, ok := s.comments[*c.ParentCommentID]; !ok {
			return nil, ErrNotFound
		}
	}

	s.lastCommentID++
	c.ID = s.lastCommentID
	now := s.now()
	c.CreatedAt, c.UpdatedAt = now, now
	s.comments[c.ID] = c
	return &c, nil
}

func (s *MemoryStore) GetComment(_ context.Context, id int) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) ListCommentsByPost(_ context.Context, postID int) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comments := []models.Comment{}
	for _, c := range s.comments {
		if c.PostID == postID && !c.IsBlocked {
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (s *MemoryStore) UpdateComment(_ context.Context, id int, content string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.Content = content
	c.UpdatedAt = s.now()
	s.comments[id] = c
	return &c, nil
}

func (s *MemoryStore) DeleteComment(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return ErrNotFound
	}
	s.deleteCommentTree(id)
	return nil
}

// deleteCommentTree removes a comment and its replies, like ON DELETE CASCADE.
func (s *MemoryStore) deleteCommentTree(id int) {
	delete(s.comments, id)
	for cid, c := range s.comments {
		if c.ParentCommentID != nil && *c.ParentCommentID == id {
			s.deleteCommentTree(cid)
		}
	}
}

func (s *MemoryStore) BlockComment(_ context.Context, id int) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.IsBlocked = true
	c.UpdatedAt = s.now()
	s.comments[id] = c
	return &c, nil
}

func (s *MemoryStore) CommentsBreakdown(_ context.Context, from, to time.Time) ([]models.PostCommentStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type key struct {
		postID int
		day    string
	}
	counts := make(map[key]*breakdownRow)
	for _, c := range s.comments {
		if c.CreatedAt.Before(from) || c.CreatedAt.After(to) {
			continue
		}
		k := key{postID: c.PostID, day: c.CreatedAt.UTC().Format("2006-01-02")}
		row, ok := counts[k]
		if !ok {
			row = &breakdownRow{PostID: k.postID, Day: k.day}
			counts[k] = row
		}
		row.TotalComments++
		if c.IsBlocked {
			row.BlockedComments++
		}
	}

	rows := make([]breakdownRow, 0, len(counts))
	for _, row := range counts {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PostID != rows[j].PostID {
			return rows[i].PostID < rows[j].PostID
		}
		return rows[i].Day < rows[j].Day
	})
	return groupBreakdown(rows), nil
}
