package projects

import (
	"context"
	"sync"
)

var _ projectsRepo = (*repoMock)(nil)

type repoMock struct {
	Projects map[int]*Project
	nextID   int

	mutex sync.Mutex
}

func newRepoMock() *repoMock {
	return &repoMock{
		Projects: make(map[int]*Project),
		nextID:   1,
	}
}

func (r *repoMock) Add(_ context.Context, project *Project) error {
	if project.Title == "" || project.Description == "" {
		return ErrProjectTitleOrDescriptionEmpty
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	project.ID = r.nextID
	r.nextID++
	r.Projects[project.ID] = project
	return nil
}

func (r *repoMock) Update(_ context.Context, project *Project) error {
	if project.Title == "" || project.Description == "" {
		return ErrProjectTitleOrDescriptionEmpty
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Projects[project.ID]; !ok {
		return ErrProjectNotFound
	}
	r.Projects[project.ID] = project
	return nil
}

func (r *repoMock) Delete(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Projects[id]; !ok {
		return ErrProjectNotFound
	}
	delete(r.Projects, id)
	return nil
}

func (r *repoMock) Get(_ context.Context, id int) (*Project, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	project, ok := r.Projects[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

func (r *repoMock) All(_ context.Context) ([]*Project, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	allProjects := make([]*Project, 0, len(r.Projects))
	for _, project := range r.Projects {
		allProjects = append(allProjects, project)
	}
	return allProjects, nil
}
