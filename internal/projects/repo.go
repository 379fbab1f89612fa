package projects

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/bcelik/personal-hub-backend/internal/telemetry/tracing"
)

var (
	ErrProjectNotFound                = errors.New("project not found")
	ErrProjectTitleOrDescriptionEmpty = errors.New("project title or description empty")
)

type Project struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
}

var _ projectsRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, project *Project) error {
	if project.Title == "" || project.Description == "" {
		return ErrProjectTitleOrDescriptionEmpty
	}

	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now()
	}
	if project.Tags == nil {
		project.Tags = []string{}
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO projects (title, description, image_url, tags, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id;`,
		project.Title, project.Description, project.ImageURL, project.Tags, project.CreatedAt,
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
			project.ID = id
			return nil
		}
	}

	return errors.New("unexpected error, failed to insert project")
}

func (r *Repo) Update(ctx context.Context, project *Project) error {
	if project.Title == "" || project.Description == "" {
		return ErrProjectTitleOrDescriptionEmpty
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE projects SET title = $1, description = $2, image_url = $3, tags = $4 WHERE id = $5`,
		project.Title, project.Description, project.ImageURL, project.Tags, project.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (*Project, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "projectsRepo.get")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, description, image_url, tags, created_at FROM projects WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrProjectNotFound
	}

	var project Project
	if err := rows.Scan(
		&project.ID, &project.Title, &project.Description,
		&project.ImageURL, &project.Tags, &project.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *Repo) All(ctx context.Context) ([]*Project, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "projectsRepo.all")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, description, image_url, tags, created_at FROM projects ORDER BY created_at DESC, id DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2projects(rows)
}

func rows2projects(rows pgx.Rows) ([]*Project, error) {
	var allProjects []*Project
	for rows.Next() {
		var project Project
		if err := rows.Scan(
			&project.ID, &project.Title, &project.Description,
			&project.ImageURL, &project.Tags, &project.CreatedAt,
		); err != nil {
			return nil, err
		}
		allProjects = append(allProjects, &project)
	}
	return allProjects, nil
}
