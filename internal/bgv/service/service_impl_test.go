package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	bgvdomain "github.com/househelp/househelp/internal/bgv/domain"
	bgvrepo "github.com/househelp/househelp/internal/bgv/repository"
	bgvservice "github.com/househelp/househelp/internal/bgv/service"
	"github.com/househelp/househelp/internal/config"
	directorydomain "github.com/househelp/househelp/internal/directory/domain"
	directoryrepo "github.com/househelp/househelp/internal/directory/repository"
	directoryservice "github.com/househelp/househelp/internal/directory/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubChecker struct{}

func (stubChecker) IsUnlocked(context.Context, snowflake.ID, snowflake.ID) (bool, error) {
	return false, nil
}

type fixture struct {
	db   *gorm.DB
	node *snowflake.Node
	bgv  bgvdomain.Service
	user *directorydomain.User
	wkr  *directorydomain.Worker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:bgv_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&directorydomain.User{},
		&directorydomain.Worker{},
		&bgvdomain.BGVRequest{},
	))

	node, err := snowflake.NewNode(4)
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
	bgvSvc := bgvservice.New(bgvservice.Params{
		DB:        conn,
		Log:       log,
		GenID:     node,
		Repo:      bgvrepo.Provide(),
		Directory: directorySvc,
		Pricing:   pricing,
	})

	user := &directorydomain.User{
		ID:        node.Generate(),
		Phone:     "+919900020001",
		Name:      "Asha",
		Role:      "customer",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, conn.Create(user).Error)

	worker := &directorydomain.Worker{
		ID:        node.Generate(),
		Name:      "Lakshmi Devi",
		Phone:     "+919812340010",
		Category:  "maid",
		City:      "Delhi",
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, conn.Create(worker).Error)

	return &fixture{db: conn, node: node, bgv: bgvSvc, user: user, wkr: worker}
}

func (f *fixture) create(t *testing.T) bgvdomain.BGVRequest {
	t.Helper()
	request, err := f.bgv.Create(context.Background(), bgvdomain.CreateBGVRequest{
		RequesterID:      f.user.ID.String(),
		WorkerID:         f.wkr.ID.String(),
		PaymentReference: "pay_bgv",
		Amount:           499,
	})
	require.NoError(t, err)
	return request
}

func TestCreateBGVStartsPending(t *testing.T) {
	f := newFixture(t)

	request := f.create(t)
	assert.Equal(t, bgvdomain.StatusPending, request.Status)
	assert.Equal(t, int64(499), request.Amount)
	assert.Empty(t, request.ReportURL)
}

func TestCreateBGVRejectsBadPayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name       string
		paymentRef string
		amount     int64
	}{
		{name: "missing payment reference", paymentRef: "", amount: 499},
		{name: "wrong amount", paymentRef: "pay_bgv", amount: 99},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.bgv.Create(ctx, bgvdomain.CreateBGVRequest{
				RequesterID:      f.user.ID.String(),
				WorkerID:         f.wkr.ID.String(),
				PaymentReference: tc.paymentRef,
				Amount:           tc.amount,
			})
			assert.ErrorIs(t, err, bgvdomain.ErrInvalidPayment)
		})
	}
}

func TestGetBGVHidesOtherRequesters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	request := f.create(t)

	got, err := f.bgv.Get(ctx, bgvdomain.GetBGVRequest{
		ID:          request.ID.String(),
		RequesterID: f.user.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, request.ID, got.ID)

	_, err = f.bgv.Get(ctx, bgvdomain.GetBGVRequest{
		ID:          request.ID.String(),
		RequesterID: f.node.Generate().String(),
	})
	assert.ErrorIs(t, err, bgvdomain.ErrNotFound)
}

func TestUpdateStatusWalksTheLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	request := f.create(t)

	inProgress, err := f.bgv.UpdateStatus(ctx, bgvdomain.UpdateBGVStatusRequest{
		ID:     request.ID.String(),
		Status: bgvdomain.StatusInProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, bgvdomain.StatusInProgress, inProgress.Status)

	completed, err := f.bgv.UpdateStatus(ctx, bgvdomain.UpdateBGVStatusRequest{
		ID:        request.ID.String(),
		Status:    bgvdomain.StatusCompleted,
		ReportURL: "https://reports.example.com/r/123",
	})
	require.NoError(t, err)
	assert.Equal(t, bgvdomain.StatusCompleted, completed.Status)
	assert.Equal(t, "https://reports.example.com/r/123", completed.ReportURL)
}

func TestUpdateStatusRejectsBadTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	request := f.create(t)

	// Completion is only reachable through in_progress.
	_, err := f.bgv.UpdateStatus(ctx, bgvdomain.UpdateBGVStatusRequest{
		ID:        request.ID.String(),
		Status:    bgvdomain.StatusCompleted,
		ReportURL: "https://reports.example.com/r/1",
	})
	assert.ErrorIs(t, err, bgvdomain.ErrInvalidTransition)

	_, err = f.bgv.UpdateStatus(ctx, bgvdomain.UpdateBGVStatusRequest{
		ID:     request.ID.String(),
		Status: "archived",
	})
	assert.ErrorIs(t, err, bgvdomain.ErrInvalidStatus)

	_, err = f.bgv.UpdateStatus(ctx, bgvdomain.UpdateBGVStatusRequest{
		ID:     request.ID.String(),
		Status: bgvdomain.StatusFailed,
	})
	require.NoError(t, err)

	// Terminal states are frozen.
	_, err = f.bgv.UpdateStatus(ctx, bgvdomain.UpdateBGVStatusRequest{
		ID:     request.ID.String(),
		Status: bgvdomain.StatusInProgress,
	})
	assert.ErrorIs(t, err, bgvdomain.ErrInvalidTransition)
}

func TestUpdateStatusCompletedNeedsReport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	request := f.create(t)

	_, err := f.bgv.UpdateStatus(ctx, bgvdomain.UpdateBGVStatusRequest{
		ID:     request.ID.String(),
		Status: bgvdomain.StatusInProgress,
	})
	require.NoError(t, err)

	_, err = f.bgv.UpdateStatus(ctx, bgvdomain.UpdateBGVStatusRequest{
		ID:     request.ID.String(),
		Status: bgvdomain.StatusCompleted,
	})
	assert.ErrorIs(t, err, bgvdomain.ErrReportURLRequired)
}

// staleRepo hands UpdateStatus a snapshot frozen at the given status,
// standing in for a concurrent writer that moved the row between the
// read and the write.
type staleRepo struct {
	bgvdomain.Repository
	status string
}

func (r *staleRepo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*bgvdomain.BGVRequest, error) {
	request, err := r.Repository.FindByID(ctx, db, id)
	if err != nil || request == nil {
		return request, err
	}
	snapshot := *request
	snapshot.Status = r.status
	snapshot.ReportURL = ""
	return &snapshot, nil
}

func TestUpdateStatusGuardsAgainstStaleReads(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	request := f.create(t)

	_, err := f.bgv.UpdateStatus(ctx, bgvdomain.UpdateBGVStatusRequest{
		ID:     request.ID.String(),
		Status: bgvdomain.StatusInProgress,
	})
	require.NoError(t, err)
	_, err = f.bgv.UpdateStatus(ctx, bgvdomain.UpdateBGVStatusRequest{
		ID:        request.ID.String(),
		Status:    bgvdomain.StatusCompleted,
		ReportURL: "https://reports.example.com/bgv/1.pdf",
	})
	require.NoError(t, err)

	pricing := config.NewStaticPricingHolder(config.DefaultPricingConfig())
	staleSvc := bgvservice.New(bgvservice.Params{
		DB:    f.db,
		Log:   zap.NewNop(),
		GenID: f.node,
		Repo:  &staleRepo{Repository: bgvrepo.Provide(), status: bgvdomain.StatusPending},
		Directory: directoryservice.New(directoryservice.Params{
			DB:      f.db,
			Log:     zap.NewNop(),
			Repo:    directoryrepo.Provide(),
			Pricing: pricing,
			Unlocks: stubChecker{},
		}),
		Pricing: pricing,
	})

	// The stale snapshot says pending, so the transition check passes,
	// but the conditional write must see the committed completed row.
	_, err = staleSvc.UpdateStatus(ctx, bgvdomain.UpdateBGVStatusRequest{
		ID:     request.ID.String(),
		Status: bgvdomain.StatusInProgress,
	})
	assert.ErrorIs(t, err, bgvdomain.ErrInvalidTransition)

	stored, err := bgvrepo.Provide().FindByID(ctx, f.db, request.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, bgvdomain.StatusCompleted, stored.Status)
	assert.Equal(t, "https://reports.example.com/bgv/1.pdf", stored.ReportURL)
}
