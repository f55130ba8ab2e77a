package users

import (
	"context"

	"github.com/pkg/errors"
)

// Registry resolves mobile numbers to user records, creating a record on
// first contact.
type Registry struct {
	repo UserRepo
}

func NewRegistry(repo UserRepo) (*Registry, error) {
	if repo == nil {
		return nil, errors.New("[NewRegistry] user repo is required")
	}
	return &Registry{repo: repo}, nil
}

// EnsureUser looks a user up by mobile number and creates one with only the
// mobile populated if none exists. Datastore errors propagate unchanged.
func (r *Registry) EnsureUser(ctx context.Context, mobile string) (*User, error) {
	user, err := r.repo.GetByMobile(ctx, mobile)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, errors.Wrap(err, "[Registry.EnsureUser] GetByMobile")
	}

	user, err = r.repo.Create(ctx, &User{Mobile: mobile})
	if err != nil {
		return nil, errors.Wrap(err, "[Registry.EnsureUser] Create")
	}
	return user, nil
}
