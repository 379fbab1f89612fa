package contact

import (
	"context"
	"sort"
	"sync"
)

var _ messagesRepo = (*repoMock)(nil)

type repoMock struct {
	Messages map[int]*Message
	nextID   int

	mutex sync.Mutex
}

func newRepoMock() *repoMock {
	return &repoMock{
		Messages: make(map[int]*Message),
		nextID:   1,
	}
}

func (r *repoMock) Add(_ context.Context, message *Message) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	message.ID = r.nextID
	r.nextID++
	r.Messages[message.ID] = message
	return nil
}

func (r *repoMock) Delete(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Messages[id]; !ok {
		return ErrMessageNotFound
	}
	delete(r.Messages, id)
	return nil
}

func (r *repoMock) All(_ context.Context) ([]*Message, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	messages := make([]*Message, 0, len(r.Messages))
	for _, message := range r.Messages {
		messages = append(messages, message)
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].ReceivedAt.After(messages[j].ReceivedAt)
	})
	return messages, nil
}
