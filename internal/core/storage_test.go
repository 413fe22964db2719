package core

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mdiaw/comptabook/internal/model"
)

func newStorageService(db *mockDB) *StorageService {
	svc := NewStorageService(db, DefaultPolicy())
	svc.now = fixedTime
	return svc
}

func TestStorageService_UsageOf(t *testing.T) {
	db := &mockDB{}
	svc := newStorageService(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContains("COALESCE"), mock.Anything).Return(usageRow(4200))

	used, err := svc.UsageOf(ctx, "ten-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4200), used)
}

func TestStorageService_QuotaOf_ActiveSubscription(t *testing.T) {
	db := &mockDB{}
	svc := newStorageService(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContains("JOIN plans"), mock.Anything).Return(quotaRow(5 << 30))

	quota, err := svc.QuotaOf(ctx, "ten-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5<<30), quota)
}

func TestStorageService_QuotaOf_NoSubscription(t *testing.T) {
	db := &mockDB{}
	svc := newStorageService(db)
	ctx := context.Background()

	missing := &mockRow{scanFunc: func(dest ...any) error { return pgx.ErrNoRows }}
	db.On("QueryRow", ctx, sqlContains("JOIN plans"), mock.Anything).Return(missing)

	quota, err := svc.QuotaOf(ctx, "ten-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), quota)
}

func TestStorageService_QuotaOf_ExpiredSubscription(t *testing.T) {
	db := &mockDB{}
	svc := newStorageService(db)
	ctx := context.Background()

	expired := &mockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*string)) = model.ValidationValidated
		*(dest[1].(*time.Time)) = fixedTime().AddDate(0, -1, 0)
		*(dest[2].(*int64)) = 1000
		return nil
	}}
	db.On("QueryRow", ctx, sqlContains("JOIN plans"), mock.Anything).Return(expired)

	quota, err := svc.QuotaOf(ctx, "ten-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), quota)
}

func TestStorageService_CanAccommodate(t *testing.T) {
	tests := []struct {
		name     string
		quota    int64
		used     int64
		incoming int64
		want     bool
	}{
		{"fits with room", 1000, 300, 500, true},
		{"fills exactly", 1000, 600, 400, true},
		{"one byte over", 1000, 600, 401, false},
		{"already full", 1000, 1000, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &mockDB{}
			svc := newStorageService(db)
			ctx := context.Background()

			db.On("QueryRow", ctx, sqlContains("JOIN plans"), mock.Anything).Return(quotaRow(tt.quota))
			db.On("QueryRow", ctx, sqlContains("COALESCE"), mock.Anything).Return(usageRow(tt.used))

			ok, err := svc.CanAccommodate(ctx, "ten-1", tt.incoming)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestStorageService_Usage(t *testing.T) {
	db := &mockDB{}
	svc := newStorageService(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContains("COALESCE"), mock.Anything).Return(usageRow(700))
	db.On("QueryRow", ctx, sqlContains("JOIN plans"), mock.Anything).Return(quotaRow(1000))

	usage, err := svc.Usage(ctx, "ten-1")
	require.NoError(t, err)
	assert.Equal(t, &model.StorageUsage{UsedBytes: 700, QuotaBytes: 1000, AvailableBytes: 300}, usage)
}

func TestStorageService_Usage_QuotaLapsed(t *testing.T) {
	db := &mockDB{}
	svc := newStorageService(db)
	ctx := context.Background()

	// Data outlives the subscription: usage stays reported, available
	// clamps to zero instead of going negative.
	missing := &mockRow{scanFunc: func(dest ...any) error { return pgx.ErrNoRows }}
	db.On("QueryRow", ctx, sqlContains("COALESCE"), mock.Anything).Return(usageRow(700))
	db.On("QueryRow", ctx, sqlContains("JOIN plans"), mock.Anything).Return(missing)

	usage, err := svc.Usage(ctx, "ten-1")
	require.NoError(t, err)
	assert.Equal(t, int64(700), usage.UsedBytes)
	assert.Equal(t, int64(0), usage.QuotaBytes)
	assert.Equal(t, int64(0), usage.AvailableBytes)
}
