package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	accesslogdomain "github.com/househelp/househelp/internal/accesslog/domain"
	accesslogrepo "github.com/househelp/househelp/internal/accesslog/repository"
	accesslogservice "github.com/househelp/househelp/internal/accesslog/service"
	"github.com/househelp/househelp/internal/config"
	directorydomain "github.com/househelp/househelp/internal/directory/domain"
	directoryrepo "github.com/househelp/househelp/internal/directory/repository"
	directoryservice "github.com/househelp/househelp/internal/directory/service"
	unlockdomain "github.com/househelp/househelp/internal/unlock/domain"
	unlockrepo "github.com/househelp/househelp/internal/unlock/repository"
	unlockservice "github.com/househelp/househelp/internal/unlock/service"
	"github.com/househelp/househelp/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubChecker struct{ unlocked bool }

func (s stubChecker) IsUnlocked(context.Context, snowflake.ID, snowflake.ID) (bool, error) {
	return s.unlocked, nil
}

type fixture struct {
	db        *gorm.DB
	node      *snowflake.Node
	directory directorydomain.Service
	recorder  accesslogdomain.Recorder
	unlocks   unlockdomain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:unlock_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&directorydomain.User{},
		&directorydomain.Worker{},
		&unlockdomain.Unlock{},
		&accesslogdomain.ContactAccessLog{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	pricing := config.NewStaticPricingHolder(config.DefaultPricingConfig())

	directorySvc := directoryservice.New(directoryservice.Params{
		DB:      conn,
		Log:     log,
		Repo:    directoryrepo.Provide(),
		Pricing: pricing,
		Unlocks: stubChecker{},
	})
	recorder := accesslogservice.New(accesslogservice.Params{
		DB:    conn,
		Log:   log,
		GenID: node,
		Repo:  accesslogrepo.Provide(),
	})
	unlockSvc := unlockservice.New(unlockservice.Params{
		DB:        conn,
		Log:       log,
		GenID:     node,
		Repo:      unlockrepo.Provide(),
		Directory: directorySvc,
		Recorder:  recorder,
		Pricing:   pricing,
	})

	return &fixture{
		db:        conn,
		node:      node,
		directory: directorySvc,
		recorder:  recorder,
		unlocks:   unlockSvc,
	}
}

func (f *fixture) seedUser(t *testing.T, name string) *directorydomain.User {
	t.Helper()
	user := &directorydomain.User{
		ID:        f.node.Generate(),
		Phone:     fmt.Sprintf("+9190000%05d", nextPhoneSeq()),
		Name:      name,
		City:      "Bengaluru",
		Role:      "customer",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *fixture) seedWorker(t *testing.T, name, phone string) *directorydomain.Worker {
	t.Helper()
	worker := &directorydomain.Worker{
		ID:        f.node.Generate(),
		Name:      name,
		Phone:     phone,
		Category:  "maid",
		City:      "Bengaluru",
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.db.Create(worker).Error)
	return worker
}

var phoneSeq int

func nextPhoneSeq() int {
	phoneSeq++
	return phoneSeq
}

func TestRequestUnlockCreatesLedgerEntry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.seedUser(t, "Asha")
	worker := f.seedWorker(t, "Lakshmi Devi", "+919812345001")

	resp, err := f.unlocks.RequestUnlock(ctx, unlockdomain.RequestUnlockRequest{
		RequesterID:      user.ID.String(),
		WorkerID:         worker.ID.String(),
		PaymentReference: "pay_001",
		Amount:           99,
	})
	require.NoError(t, err)

	assert.False(t, resp.AlreadyUnlocked)
	assert.Equal(t, worker.ID, resp.WorkerID)
	assert.Equal(t, "Lakshmi Devi", resp.WorkerName)
	assert.Equal(t, "+919812345001", resp.Phone)
	assert.Equal(t, int64(99), resp.Amount)
	assert.NotEmpty(t, resp.Disclaimer)

	var count int64
	require.NoError(t, f.db.Model(&unlockdomain.Unlock{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	entries, err := f.recorder.ListByPair(ctx, user.ID, worker.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, accesslogdomain.OutcomeCreated, entries[0].Outcome)
}

func TestRequestUnlockIsIdempotentPerPair(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.seedUser(t, "Asha")
	worker := f.seedWorker(t, "Ramesh Kumar", "+919812345002")

	req := unlockdomain.RequestUnlockRequest{
		RequesterID:      user.ID.String(),
		WorkerID:         worker.ID.String(),
		PaymentReference: "pay_first",
		Amount:           99,
	}
	first, err := f.unlocks.RequestUnlock(ctx, req)
	require.NoError(t, err)
	require.False(t, first.AlreadyUnlocked)

	req.PaymentReference = "pay_second"
	second, err := f.unlocks.RequestUnlock(ctx, req)
	require.NoError(t, err)

	assert.True(t, second.AlreadyUnlocked)
	assert.Equal(t, first.Phone, second.Phone)
	assert.Equal(t, first.UnlockedAt.Unix(), second.UnlockedAt.Unix())

	var count int64
	require.NoError(t, f.db.Model(&unlockdomain.Unlock{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	entries, err := f.recorder.ListByPair(ctx, user.ID, worker.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, accesslogdomain.OutcomeRepeat, entries[0].Outcome)
}

func TestRequestUnlockRejectsBadPayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.seedUser(t, "Asha")
	worker := f.seedWorker(t, "Sunita Sharma", "+919812345003")

	tests := []struct {
		name       string
		paymentRef string
		amount     int64
	}{
		{name: "missing payment reference", paymentRef: "", amount: 99},
		{name: "zero amount", paymentRef: "pay_x", amount: 0},
		{name: "wrong amount", paymentRef: "pay_x", amount: 50},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.unlocks.RequestUnlock(ctx, unlockdomain.RequestUnlockRequest{
				RequesterID:      user.ID.String(),
				WorkerID:         worker.ID.String(),
				PaymentReference: tc.paymentRef,
				Amount:           tc.amount,
			})
			assert.ErrorIs(t, err, unlockdomain.ErrInvalidPayment)
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&unlockdomain.Unlock{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestRequestUnlockUnknownParties(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.seedUser(t, "Asha")
	worker := f.seedWorker(t, "Lakshmi Devi", "+919812345004")

	_, err := f.unlocks.RequestUnlock(ctx, unlockdomain.RequestUnlockRequest{
		RequesterID:      f.node.Generate().String(),
		WorkerID:         worker.ID.String(),
		PaymentReference: "pay_x",
		Amount:           99,
	})
	assert.ErrorIs(t, err, directorydomain.ErrUserNotFound)

	_, err = f.unlocks.RequestUnlock(ctx, unlockdomain.RequestUnlockRequest{
		RequesterID:      user.ID.String(),
		WorkerID:         f.node.Generate().String(),
		PaymentReference: "pay_x",
		Amount:           99,
	})
	assert.ErrorIs(t, err, directorydomain.ErrWorkerNotFound)

	_, err = f.unlocks.RequestUnlock(ctx, unlockdomain.RequestUnlockRequest{
		RequesterID:      "not-a-snowflake",
		WorkerID:         worker.ID.String(),
		PaymentReference: "pay_x",
		Amount:           99,
	})
	assert.ErrorIs(t, err, unlockdomain.ErrInvalidID)
}

func TestIsUnlocked(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.seedUser(t, "Asha")
	worker := f.seedWorker(t, "Ramesh Kumar", "+919812345005")

	unlocked, err := f.unlocks.IsUnlocked(ctx, user.ID, worker.ID)
	require.NoError(t, err)
	assert.False(t, unlocked)

	_, err = f.unlocks.RequestUnlock(ctx, unlockdomain.RequestUnlockRequest{
		RequesterID:      user.ID.String(),
		WorkerID:         worker.ID.String(),
		PaymentReference: "pay_x",
		Amount:           99,
	})
	require.NoError(t, err)

	unlocked, err = f.unlocks.IsUnlocked(ctx, user.ID, worker.ID)
	require.NoError(t, err)
	assert.True(t, unlocked)
}

// racingRepo makes the pre-insert pair check miss once, forcing the
// service down the duplicate-key path a losing concurrent writer takes.
type racingRepo struct {
	unlockdomain.Repository
	misses int
}

func (r *racingRepo) FindByPair(ctx context.Context, conn *gorm.DB, requesterID, workerID snowflake.ID) (*unlockdomain.Unlock, error) {
	if r.misses > 0 {
		r.misses--
		return nil, nil
	}
	return r.Repository.FindByPair(ctx, conn, requesterID, workerID)
}

func TestRequestUnlockLosingWriterGetsWinnerRow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.seedUser(t, "Asha")
	worker := f.seedWorker(t, "Lakshmi Devi", "+919812345006")

	winner := &unlockdomain.Unlock{
		ID:               f.node.Generate(),
		RequesterID:      user.ID,
		WorkerID:         worker.ID,
		PaymentReference: "pay_winner",
		Amount:           99,
		CreatedAt:        time.Now().UTC(),
	}
	require.NoError(t, f.db.Create(winner).Error)

	svc := unlockservice.New(unlockservice.Params{
		DB:        f.db,
		Log:       zap.NewNop(),
		GenID:     f.node,
		Repo:      &racingRepo{Repository: unlockrepo.Provide(), misses: 1},
		Directory: f.directory,
		Recorder:  f.recorder,
		Pricing:   config.NewStaticPricingHolder(config.DefaultPricingConfig()),
	})

	resp, err := svc.RequestUnlock(ctx, unlockdomain.RequestUnlockRequest{
		RequesterID:      user.ID.String(),
		WorkerID:         worker.ID.String(),
		PaymentReference: "pay_loser",
		Amount:           99,
	})
	require.NoError(t, err)
	assert.True(t, resp.AlreadyUnlocked)
	assert.Equal(t, winner.CreatedAt.Unix(), resp.UnlockedAt.Unix())

	var count int64
	require.NoError(t, f.db.Model(&unlockdomain.Unlock{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestListByRequesterPaginates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.seedUser(t, "Asha")

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	workers := make([]*directorydomain.Worker, 0, 3)
	for i := 0; i < 3; i++ {
		worker := f.seedWorker(t, fmt.Sprintf("Worker %d", i), fmt.Sprintf("+9198123451%02d", i))
		workers = append(workers, worker)
		unlock := &unlockdomain.Unlock{
			ID:               f.node.Generate(),
			RequesterID:      user.ID,
			WorkerID:         worker.ID,
			PaymentReference: fmt.Sprintf("pay_%d", i),
			Amount:           99,
			CreatedAt:        base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, f.db.Create(unlock).Error)
	}

	page1, err := f.unlocks.ListByRequester(ctx, unlockdomain.ListUnlocksRequest{
		RequesterID: user.ID.String(),
		PageSize:    2,
	})
	require.NoError(t, err)
	require.Len(t, page1.Unlocks, 2)
	assert.True(t, page1.HasMore)
	assert.NotEmpty(t, page1.NextPageToken)

	// Newest first.
	assert.Equal(t, workers[2].ID, page1.Unlocks[0].WorkerID)
	assert.Equal(t, "Worker 2", page1.Unlocks[0].WorkerName)
	assert.Equal(t, workers[1].ID, page1.Unlocks[1].WorkerID)

	page2, err := f.unlocks.ListByRequester(ctx, unlockdomain.ListUnlocksRequest{
		RequesterID: user.ID.String(),
		PageSize:    2,
		PageToken:   page1.NextPageToken,
	})
	require.NoError(t, err)
	require.Len(t, page2.Unlocks, 1)
	assert.False(t, page2.HasMore)
	assert.Equal(t, workers[0].ID, page2.Unlocks[0].WorkerID)
}

func TestListByRequesterRejectsBadPageToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.seedUser(t, "Asha")

	badIDToken, err := pagination.EncodeCursor(pagination.Cursor{
		ID:        "not-a-number",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	require.NoError(t, err)
	badTimeToken, err := pagination.EncodeCursor(pagination.Cursor{
		ID:        f.node.Generate().String(),
		CreatedAt: "yesterday",
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "not base64", token: "%%%"},
		{name: "not a cursor", token: "bm90IGpzb24"},
		{name: "bad id", token: badIDToken},
		{name: "bad timestamp", token: badTimeToken},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.unlocks.ListByRequester(ctx, unlockdomain.ListUnlocksRequest{
				RequesterID: user.ID.String(),
				PageSize:    2,
				PageToken:   tc.token,
			})
			assert.ErrorIs(t, err, unlockdomain.ErrInvalidPageToken)
		})
	}
}
