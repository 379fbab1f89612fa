package about

import (
	"context"
	"sync"
	"time"
)

var _ aboutRepo = (*repoMock)(nil)

type repoMock struct {
	Content *Content

	mutex sync.Mutex
}

func newRepoMock() *repoMock {
	return &repoMock{
		Content: &Content{
			Greeting:     "Hello!",
			Introduction: "placeholder introduction",
		},
	}
}

func (r *repoMock) Get(_ context.Context) (*Content, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.Content == nil {
		return nil, ErrContentNotFound
	}
	return r.Content, nil
}

func (r *repoMock) Update(_ context.Context, content *Content) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.Content == nil {
		return ErrContentNotFound
	}
	content.UpdatedAt = time.Now()
	r.Content = content
	return nil
}
