package blog

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/bcelik/personal-hub-backend/internal/telemetry/tracing"
)

var ErrPostNotFound = errors.New("blog post not found")

type Post struct {
	ID          int       `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	ImageURL    string    `json:"imageUrl"`
	PublishedAt time.Time `json:"publishedAt"`
}

var _ blogRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) AddPost(ctx context.Context, post *Post) error {
	if post.PublishedAt.IsZero() {
		post.PublishedAt = time.Now()
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO blog_posts (slug, title, excerpt, content, image_url, published_at)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`,
		post.Slug, post.Title, post.Excerpt, post.Content, post.ImageURL, post.PublishedAt,
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
			post.ID = id
			return nil
		}
	}

	return errors.New("unexpected error, failed to insert blog post")
}

func (r *Repo) UpdatePost(ctx context.Context, post *Post) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE blog_posts SET slug = $1, title = $2, excerpt = $3, content = $4, image_url = $5 WHERE id = $6`,
		post.Slug, post.Title, post.Excerpt, post.Content, post.ImageURL, post.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *Repo) DeletePost(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *Repo) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.getBySlug")
	span.SetAttributes(attribute.String("slug", slug))
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, slug, title, excerpt, content, image_url, published_at FROM blog_posts WHERE slug = $1;`,
		slug,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrPostNotFound
	}

	var post Post
	if err := rows.Scan(
		&post.ID, &post.Slug, &post.Title, &post.Excerpt,
		&post.Content, &post.ImageURL, &post.PublishedAt,
	); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *Repo) All(ctx context.Context) ([]*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.all")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, slug, title, excerpt, content, image_url, published_at FROM blog_posts ORDER BY published_at DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2posts(rows)
}

func (r *Repo) PostsCount(ctx context.Context) (int, error) {
	rows, err := r.db.Query(ctx, `SELECT COUNT(*) FROM blog_posts;`)
	if err != nil {
		return -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return -1, err
	}

	if !rows.Next() {
		return -1, errors.New("unexpected error, failed to count blog posts")
	}

	var count int
	if err := rows.Scan(&count); err != nil {
		return -1, err
	}
	return count, nil
}

func (r *Repo) GetPostsPage(ctx context.Context, page, size int) ([]*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.getPostsPage")
	span.SetAttributes(attribute.Int("page", page), attribute.Int("size", size))
	defer span.End()

	limit := size
	offset := (page - 1) * size

	postsCount, err := r.PostsCount(ctx)
	if err != nil {
		return nil, err
	}
	if postsCount == 0 {
		return []*Post{}, nil
	}
	if offset >= postsCount {
		offset = postsCount - size
		if offset < 0 {
			offset = 0
		}
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, slug, title, excerpt, content, image_url, published_at
			FROM blog_posts ORDER BY published_at DESC LIMIT $1 OFFSET $2;`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2posts(rows)
}

func rows2posts(rows pgx.Rows) ([]*Post, error) {
	var posts []*Post
	for rows.Next() {
		var post Post
		if err := rows.Scan(
			&post.ID, &post.Slug, &post.Title, &post.Excerpt,
			&post.Content, &post.ImageURL, &post.PublishedAt,
		); err != nil {
			return nil, err
		}
		posts = append(posts, &post)
	}
	return posts, nil
}
