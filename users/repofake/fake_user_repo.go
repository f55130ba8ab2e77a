package repofake

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mobileauth/go-otp-server/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users     map[int64]*users.User
	mobileIds map[int64]string // user id to mobile
	nextID    int64
	lock      sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:     make(map[int64]*users.User),
		mobileIds: make(map[int64]string),
	}
}

func (ur *FakeUserRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	for _, u := range ur.users {
		if u.Mobile == user.Mobile {
			return nil, users.ErrDuplicateMobile
		}
	}

	ur.nextID++
	stored := *user
	stored.ID = ur.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	ur.users[stored.ID] = &stored
	ur.mobileIds[stored.ID] = stored.Mobile

	copied := stored
	return &copied, nil
}

func (ur *FakeUserRepo) Update(ctx context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	existing, ok := ur.users[user.ID]
	if !ok {
		return users.ErrNotFound
	}
	updated := *user
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	ur.users[user.ID] = &updated
	ur.mobileIds[user.ID] = updated.Mobile
	return nil
}

func (ur *FakeUserRepo) Delete(ctx context.Context, id int64) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, ok := ur.users[id]; !ok {
		return users.ErrNotFound
	}
	delete(ur.users, id)
	delete(ur.mobileIds, id)
	return nil
}

func (ur *FakeUserRepo) GetByID(ctx context.Context, id int64) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (ur *FakeUserRepo) GetByMobile(ctx context.Context, mobile string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	for _, user := range ur.users {
		if user.Mobile == mobile {
			copied := *user
			return &copied, nil
		}
	}
	return nil, users.ErrNotFound
}

func (ur *FakeUserRepo) List(ctx context.Context, offset, limit int) ([]*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	all := make([]*users.User, 0, len(ur.users))
	for _, user := range ur.users {
		copied := *user
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if offset >= len(all) {
		return []*users.User{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (ur *FakeUserRepo) SetVerified(ctx context.Context, mobile string, verified bool) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	for _, user := range ur.users {
		if user.Mobile == mobile {
			user.MobileVerified = verified
			user.UpdatedAt = time.Now()
			return nil
		}
	}
	return users.ErrNotFound
}

func (ur *FakeUserRepo) SetOTPRef(ctx context.Context, userID, otpID int64) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[userID]
	if !ok {
		return users.ErrNotFound
	}
	user.OTPID = &otpID
	user.UpdatedAt = time.Now()
	return nil
}
