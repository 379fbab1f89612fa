package skills

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bcelik/personal-hub-backend/internal/telemetry/tracing"
)

var (
	ErrSkillNotFound     = errors.New("skill not found")
	ErrInvalidSkillLevel = errors.New("skill level has to be between 0 and 100")
)

type Skill struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
	Icon  string `json:"icon"`
}

var _ skillsRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, skill *Skill) error {
	if skill.Level < 0 || skill.Level > 100 {
		return ErrInvalidSkillLevel
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO skills (name, level, icon) VALUES ($1, $2, $3) RETURNING id;`,
		skill.Name, skill.Level, skill.Icon,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return err
	}

	if rows.Next() {
		var id int
		if err := rows.Scan(&id); err == nil {
			skill.ID = id
			return nil
		}
	}

	return errors.New("unexpected error, failed to insert skill")
}

func (r *Repo) Update(ctx context.Context, skill *Skill) error {
	if skill.Level < 0 || skill.Level > 100 {
		return ErrInvalidSkillLevel
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE skills SET name = $1, level = $2, icon = $3 WHERE id = $4`,
		skill.Name, skill.Level, skill.Icon, skill.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSkillNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSkillNotFound
	}
	return nil
}

func (r *Repo) All(ctx context.Context) ([]*Skill, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "skillsRepo.all")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, level, icon FROM skills ORDER BY level DESC, name ASC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2skills(rows)
}

func rows2skills(rows pgx.Rows) ([]*Skill, error) {
	var allSkills []*Skill
	for rows.Next() {
		var skill Skill
		if err := rows.Scan(&skill.ID, &skill.Name, &skill.Level, &skill.Icon); err != nil {
			return nil, err
		}
		allSkills = append(allSkills, &skill)
	}
	return allSkills, nil
}
