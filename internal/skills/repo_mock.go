package skills

import (
	"context"
	"sort"
	"sync"
)

var _ skillsRepo = (*repoMock)(nil)

type repoMock struct {
	Skills map[int]*Skill
	nextID int

	mutex sync.Mutex
}

func newRepoMock() *repoMock {
	return &repoMock{
		Skills: make(map[int]*Skill),
		nextID: 1,
	}
}

func (r *repoMock) Add(_ context.Context, skill *Skill) error {
	if skill.Level < 0 || skill.Level > 100 {
		return ErrInvalidSkillLevel
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	skill.ID = r.nextID
	r.nextID++
	r.Skills[skill.ID] = skill
	return nil
}

func (r *repoMock) Update(_ context.Context, skill *Skill) error {
	if skill.Level < 0 || skill.Level > 100 {
		return ErrInvalidSkillLevel
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Skills[skill.ID]; !ok {
		return ErrSkillNotFound
	}
	r.Skills[skill.ID] = skill
	return nil
}

func (r *repoMock) Delete(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Skills[id]; !ok {
		return ErrSkillNotFound
	}
	delete(r.Skills, id)
	return nil
}

func (r *repoMock) All(_ context.Context) ([]*Skill, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	allSkills := make([]*Skill, 0, len(r.Skills))
	for _, skill := range r.Skills {
		allSkills = append(allSkills, skill)
	}
	sort.Slice(allSkills, func(i, j int) bool {
		if allSkills[i].Level != allSkills[j].Level {
			return allSkills[i].Level > allSkills[j].Level
		}
		return allSkills[i].Name < allSkills[j].Name
	})
	return allSkills, nil
}
