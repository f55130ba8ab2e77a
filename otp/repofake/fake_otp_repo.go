package repofake

import (
	"context"
	"sync"
	"time"

	"github.com/mobileauth/go-otp-server/otp"
)

var _ otp.Repo = (*FakeOTPRepo)(nil)

type FakeOTPRepo struct {
	records map[int64]*otp.OTP // keyed by user ID
	nextID  int64
	lock    sync.Mutex
}

func NewFakeOTPRepo() *FakeOTPRepo {
	return &FakeOTPRepo{
		records: make(map[int64]*otp.OTP),
	}
}

func (or *FakeOTPRepo) GetByUserID(ctx context.Context, userID int64) (*otp.OTP, error) {
	or.lock.Lock()
	defer or.lock.Unlock()

	record, ok := or.records[userID]
	if !ok {
		return nil, otp.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (or *FakeOTPRepo) Replace(ctx context.Context, userID int64, code string, expiresAt, now time.Time) (*otp.OTP, error) {
	or.lock.Lock()
	defer or.lock.Unlock()

	record, ok := or.records[userID]
	if !ok {
		or.nextID++
		record = &otp.OTP{ID: or.nextID, UserID: userID, Code: code, ExpiresAt: expiresAt}
		or.records[userID] = record
		copied := *record
		return &copied, nil
	}

	if record.Live(now) {
		return nil, otp.ErrNotExpired
	}

	record.Code = code
	record.ExpiresAt = expiresAt
	copied := *record
	return &copied, nil
}

// Count reports the number of stored records, for asserting the
// one-record-per-user invariant in tests.
func (or *FakeOTPRepo) Count() int {
	or.lock.Lock()
	defer or.lock.Unlock()
	return len(or.records)
}
