package contact

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bcelik/personal-hub-backend/internal/telemetry/tracing"
)

var ErrMessageNotFound = errors.New("contact message not found")

type Message struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Message    string    `json:"message"`
	ReceivedAt time.Time `json:"receivedAt"`
}

var _ messagesRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, message *Message) error {
	if message.ReceivedAt.IsZero() {
		message.ReceivedAt = time.Now()
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO contact_messages (name, email, message, received_at) VALUES ($1, $2, $3, $4) RETURNING id;`,
		message.Name, message.Email, message.Message, message.ReceivedAt,
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
			message.ID = id
			return nil
		}
	}

	return errors.New("unexpected error, failed to insert contact message")
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *Repo) All(ctx context.Context) ([]*Message, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "contactRepo.all")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, email, message, received_at FROM contact_messages ORDER BY received_at DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2messages(rows)
}

func rows2messages(rows pgx.Rows) ([]*Message, error) {
	var messages []*Message
	for rows.Next() {
		var message Message
		if err := rows.Scan(
			&message.ID, &message.Name, &message.Email,
			&message.Message, &message.ReceivedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, &message)
	}
	return messages, nil
}
