package about

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bcelik/personal-hub-backend/internal/telemetry/tracing"
)

var ErrContentNotFound = errors.New("about content not found")

// Content is a singleton, the site has exactly one about-me section.
type Content struct {
	Greeting      string    `json:"greeting"`
	Introduction  string    `json:"introduction"`
	Mission       string    `json:"mission"`
	SkillsSummary string    `json:"skillsSummary"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

var _ aboutRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Get(ctx context.Context) (*Content, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "aboutRepo.get")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT greeting, introduction, mission, skills_summary, updated_at FROM about_content WHERE id = 1;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrContentNotFound
	}

	var content Content
	if err := rows.Scan(
		&content.Greeting, &content.Introduction,
		&content.Mission, &content.SkillsSummary, &content.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *Repo) Update(ctx context.Context, content *Content) error {
	content.UpdatedAt = time.Now()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE about_content SET greeting = $1, introduction = $2, mission = $3, skills_summary = $4, updated_at = $5 WHERE id = 1`,
		content.Greeting, content.Introduction, content.Mission, content.SkillsSummary, content.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrContentNotFound
	}
	return nil
}
