package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mobileauth/go-otp-server/otp"
	"github.com/pkg/errors"
)

var _ otp.Repo = (*OTPRepo)(nil)

type OTPRepo struct {
	db *pgxpool.Pool
}

func NewOTPRepo(db *pgxpool.Pool) *OTPRepo {
	return &OTPRepo{db: db}
}

func (r *OTPRepo) GetByUserID(ctx context.Context, userID int64) (*otp.OTP, error) {
	var o otp.OTP
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, code, expires_at FROM user_otps WHERE user_id = $1
	`, userID).Scan(&o.ID, &o.UserID, &o.Code, &o.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, otp.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// Replace creates or refreshes the user's single OTP row inside one
// transaction. The row lock serializes concurrent issue attempts for the
// same user, so the live-check and the write cannot interleave.
func (r *OTPRepo) Replace(ctx context.Context, userID int64, code string, expiresAt, now time.Time) (*otp.OTP, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[OTPRepo.Replace] Begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var existing otp.OTP
	err = tx.QueryRow(ctx, `
		SELECT id, user_id, code, expires_at FROM user_otps WHERE user_id = $1 FOR UPDATE
	`, userID).Scan(&existing.ID, &existing.UserID, &existing.Code, &existing.ExpiresAt)

	var record otp.OTP
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		err = tx.QueryRow(ctx, `
			INSERT INTO user_otps (user_id, code, expires_at)
			VALUES ($1, $2, $3)
			RETURNING id, user_id, code, expires_at
		`, userID, code, expiresAt).Scan(&record.ID, &record.UserID, &record.Code, &record.ExpiresAt)
		if err != nil {
			return nil, errors.Wrap(err, "[OTPRepo.Replace] insert")
		}
	case err != nil:
		return nil, errors.Wrap(err, "[OTPRepo.Replace] select for update")
	case existing.Live(now):
		return nil, otp.ErrNotExpired
	default:
		err = tx.QueryRow(ctx, `
			UPDATE user_otps SET code = $2, expires_at = $3 WHERE id = $1
			RETURNING id, user_id, code, expires_at
		`, existing.ID, code, expiresAt).Scan(&record.ID, &record.UserID, &record.Code, &record.ExpiresAt)
		if err != nil {
			return nil, errors.Wrap(err, "[OTPRepo.Replace] update")
		}
	}

	// Keep the user's back-reference in the same transaction so a failure
	// leaves no partial state.
	if _, err := tx.Exec(ctx, `
		UPDATE users SET otp_id = $2, updated_at = NOW() WHERE id = $1
	`, userID, record.ID); err != nil {
		return nil, errors.Wrap(err, "[OTPRepo.Replace] update otp ref")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "[OTPRepo.Replace] Commit")
	}
	return &record, nil
}
