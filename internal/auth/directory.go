package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bcelik/personal-hub-backend/internal/telemetry/tracing"
)

var ErrAdminNotFound = errors.New("admin not found")

// Admin is a record in the administrator directory. The directory is
// managed out of band (see cmd/admintool), this package only reads it.
type Admin struct {
	Email       string
	Password    string
	DisplayName string
}

type directoryRepo interface {
	FindByEmail(ctx context.Context, email string) (*Admin, error)
}

var _ directoryRepo = (*DirectoryRepo)(nil)

type DirectoryRepo struct {
	db *pgxpool.Pool
}

func NewDirectoryRepo(db *pgxpool.Pool) *DirectoryRepo {
	return &DirectoryRepo{
		db: db,
	}
}

func (r *DirectoryRepo) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "adminDirectory.findByEmail")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT email, COALESCE(password, ''), COALESCE(display_name, '') FROM admins WHERE email = $1;`,
		email,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrAdminNotFound
	}

	var admin Admin
	if err := rows.Scan(&admin.Email, &admin.Password, &admin.DisplayName); err != nil {
		return nil, err
	}

	return &admin, nil
}
