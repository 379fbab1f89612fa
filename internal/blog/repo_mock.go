package blog

import (
	"context"
	"sort"
	"sync"
)

var _ blogRepo = (*repoMock)(nil)

type repoMock struct {
	Posts  map[int]*Post
	nextID int

	mutex sync.Mutex
}

func newRepoMock() *repoMock {
	return &repoMock{
		Posts:  make(map[int]*Post),
		nextID: 1,
	}
}

func (r *repoMock) AddPost(_ context.Context, post *Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	post.ID = r.nextID
	r.nextID++
	r.Posts[post.ID] = post
	return nil
}

func (r *repoMock) UpdatePost(_ context.Context, post *Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Posts[post.ID]; !ok {
		return ErrPostNotFound
	}
	r.Posts[post.ID] = post
	return nil
}

func (r *repoMock) DeletePost(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Posts[id]; !ok {
		return ErrPostNotFound
	}
	delete(r.Posts, id)
	return nil
}

func (r *repoMock) GetBySlug(_ context.Context, slug string) (*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, post := range r.Posts {
		if post.Slug == slug {
			return post, nil
		}
	}
	return nil, ErrPostNotFound
}

func (r *repoMock) All(_ context.Context) ([]*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.sortedPosts(), nil
}

func (r *repoMock) PostsCount(_ context.Context) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return len(r.Posts), nil
}

func (r *repoMock) GetPostsPage(_ context.Context, page, size int) ([]*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	posts := r.sortedPosts()
	offset := (page - 1) * size
	if offset >= len(posts) {
		offset = len(posts) - size
		if offset < 0 {
			offset = 0
		}
	}
	end := offset + size
	if end > len(posts) {
		end = len(posts)
	}
	return posts[offset:end], nil
}

func (r *repoMock) sortedPosts() []*Post {
	posts := make([]*Post, 0, len(r.Posts))
	for _, post := range r.Posts {
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].PublishedAt.After(posts[j].PublishedAt)
	})
	return posts
}
