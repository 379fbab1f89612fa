package auth

import (
	"context"
	"sync"
)

var _ directoryRepo = (*directoryRepoMock)(nil)

// directoryRepoMock is an in-memory administrator directory for unit tests.
type directoryRepoMock struct {
	Admins  map[string]*Admin
	FailErr error // when set, FindByEmail fails with it
	mutex   sync.Mutex
}

func newDirectoryRepoMock(admins ...*Admin) *directoryRepoMock {
	mock := &directoryRepoMock{
		Admins: make(map[string]*Admin),
	}
	for _, admin := range admins {
		mock.Admins[admin.Email] = admin
	}
	return mock
}

func (r *directoryRepoMock) FindByEmail(_ context.Context, email string) (*Admin, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.FailErr != nil {
		return nil, r.FailErr
	}

	admin, ok := r.Admins[email]
	if !ok {
		return nil, ErrAdminNotFound
	}
	return admin, nil
}
