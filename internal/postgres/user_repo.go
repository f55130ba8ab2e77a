package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mobileauth/go-otp-server/users"
	"github.com/pkg/errors"
)

const uniqueViolationCode = "23505"

var _ users.UserRepo = (*UserRepo)(nil)

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, first_name, last_name, mobile, password_hash, mobile_verified, otp_id, created_at, updated_at`

func scanUser(row pgx.Row) (*users.User, error) {
	var u users.User
	var firstName, lastName, passwordHash *string
	err := row.Scan(&u.ID, &firstName, &lastName, &u.Mobile, &passwordHash, &u.MobileVerified, &u.OTPID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, err
	}
	if firstName != nil {
		u.FirstName = *firstName
	}
	if lastName != nil {
		u.LastName = *lastName
	}
	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, mobile, password_hash)
		VALUES (NULLIF($1, ''), NULLIF($2, ''), $3, NULLIF($4, ''))
		RETURNING `+userColumns,
		user.FirstName, user.LastName, user.Mobile, user.PasswordHash)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, users.ErrDuplicateMobile
		}
		return nil, err
	}
	return created, nil
}

func (r *UserRepo) Update(ctx context.Context, user *users.User) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET first_name = NULLIF($2, ''), last_name = NULLIF($3, ''),
		    mobile = $4, password_hash = NULLIF($5, ''),
		    mobile_verified = $6, updated_at = NOW()
		WHERE id = $1
	`, user.ID, user.FirstName, user.LastName, user.Mobile, user.PasswordHash, user.MobileVerified)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM user_otps WHERE user_id = $1`, id); err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*users.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepo) GetByMobile(ctx context.Context, mobile string) (*users.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE mobile = $1`, mobile))
}

func (r *UserRepo) List(ctx context.Context, offset, limit int) ([]*users.User, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*users.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (r *UserRepo) SetVerified(ctx context.Context, mobile string, verified bool) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET mobile_verified = $2, updated_at = NOW() WHERE mobile = $1
	`, mobile, verified)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *UserRepo) SetOTPRef(ctx context.Context, userID, otpID int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET otp_id = $2, updated_at = NOW() WHERE id = $1
	`, userID, otpID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return users.ErrNotFound
	}
	return nil
}
