package service_test

import (
	"context"
	"fmt"
	"sync"
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
	reviewdomain "github.com/househelp/househelp/internal/review/domain"
	reviewrepo "github.com/househelp/househelp/internal/review/repository"
	reviewservice "github.com/househelp/househelp/internal/review/service"
	unlockdomain "github.com/househelp/househelp/internal/unlock/domain"
	unlockrepo "github.com/househelp/househelp/internal/unlock/repository"
	unlockservice "github.com/househelp/househelp/internal/unlock/service"
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
	unlocks   unlockdomain.Service
	reviews   reviewdomain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:review_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&directorydomain.User{},
		&directorydomain.Worker{},
		&unlockdomain.Unlock{},
		&accesslogdomain.ContactAccessLog{},
		&reviewdomain.Review{},
	))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	log := zap.NewNop()
	pricing := config.NewStaticPricingHolder(config.DefaultPricingConfig())
	directoryRepo := directoryrepo.Provide()

	directorySvc := directoryservice.New(directoryservice.Params{
		DB:      conn,
		Log:     log,
		Repo:    directoryRepo,
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
	reviewSvc := reviewservice.New(reviewservice.Params{
		DB:            conn,
		Log:           log,
		GenID:         node,
		Repo:          reviewrepo.Provide(),
		Directory:     directorySvc,
		DirectoryRepo: directoryRepo,
		Unlocks:       unlockSvc,
	})

	return &fixture{
		db:        conn,
		node:      node,
		directory: directorySvc,
		unlocks:   unlockSvc,
		reviews:   reviewSvc,
	}
}

func (f *fixture) seedUser(t *testing.T, name, phone string) *directorydomain.User {
	t.Helper()
	user := &directorydomain.User{
		ID:        f.node.Generate(),
		Phone:     phone,
		Name:      name,
		City:      "Mumbai",
		Role:      "customer",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *fixture) seedWorker(t *testing.T, name string) *directorydomain.Worker {
	t.Helper()
	worker := &directorydomain.Worker{
		ID:        f.node.Generate(),
		Name:      name,
		Phone:     fmt.Sprintf("+9198000%05d", f.node.Generate()%100000),
		Category:  "cook",
		City:      "Mumbai",
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.db.Create(worker).Error)
	return worker
}

func (f *fixture) unlock(t *testing.T, user *directorydomain.User, worker *directorydomain.Worker) {
	t.Helper()
	_, err := f.unlocks.RequestUnlock(context.Background(), unlockdomain.RequestUnlockRequest{
		RequesterID:      user.ID.String(),
		WorkerID:         worker.ID.String(),
		PaymentReference: "pay_" + user.ID.String(),
		Amount:           99,
	})
	require.NoError(t, err)
}

func TestSubmitRequiresUnlock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.seedUser(t, "Asha", "+919900000001")
	worker := f.seedWorker(t, "Ramesh Kumar")

	_, err := f.reviews.Submit(ctx, reviewdomain.SubmitReviewRequest{
		RequesterID: user.ID.String(),
		WorkerID:    worker.ID.String(),
		Rating:      4,
	})
	assert.ErrorIs(t, err, reviewdomain.ErrForbidden)
}

func TestSubmitRejectsOutOfRangeRating(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.seedUser(t, "Asha", "+919900000002")
	worker := f.seedWorker(t, "Sunita Sharma")
	f.unlock(t, user, worker)

	for _, rating := range []int{0, -1, 6} {
		_, err := f.reviews.Submit(ctx, reviewdomain.SubmitReviewRequest{
			RequesterID: user.ID.String(),
			WorkerID:    worker.ID.String(),
			Rating:      rating,
		})
		assert.ErrorIs(t, err, reviewdomain.ErrInvalidRating, "rating %d", rating)
	}
}

func TestSubmitUpdatesWorkerAggregate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	worker := f.seedWorker(t, "Lakshmi Devi")

	first := f.seedUser(t, "Asha", "+919900000003")
	second := f.seedUser(t, "Vikram", "+919900000004")
	f.unlock(t, first, worker)
	f.unlock(t, second, worker)

	_, err := f.reviews.Submit(ctx, reviewdomain.SubmitReviewRequest{
		RequesterID: first.ID.String(),
		WorkerID:    worker.ID.String(),
		Rating:      5,
		Comment:     "Very punctual",
	})
	require.NoError(t, err)

	_, err = f.reviews.Submit(ctx, reviewdomain.SubmitReviewRequest{
		RequesterID: second.ID.String(),
		WorkerID:    worker.ID.String(),
		Rating:      3,
	})
	require.NoError(t, err)

	updated, err := f.directory.ResolveWorker(ctx, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.RatingCount)
	assert.InDelta(t, 4.0, updated.RatingAvg, 0.001)
}

func TestSubmitSecondReviewConflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.seedUser(t, "Asha", "+919900000005")
	worker := f.seedWorker(t, "Ramesh Kumar")
	f.unlock(t, user, worker)

	_, err := f.reviews.Submit(ctx, reviewdomain.SubmitReviewRequest{
		RequesterID: user.ID.String(),
		WorkerID:    worker.ID.String(),
		Rating:      4,
	})
	require.NoError(t, err)

	_, err = f.reviews.Submit(ctx, reviewdomain.SubmitReviewRequest{
		RequesterID: user.ID.String(),
		WorkerID:    worker.ID.String(),
		Rating:      2,
	})
	assert.ErrorIs(t, err, reviewdomain.ErrAlreadyReviewed)

	updated, err := f.directory.ResolveWorker(ctx, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.RatingCount)
	assert.InDelta(t, 4.0, updated.RatingAvg, 0.001)
}

func TestListByWorkerJoinsReviewerNames(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.seedUser(t, "Asha", "+919900000006")
	worker := f.seedWorker(t, "Sunita Sharma")
	f.unlock(t, user, worker)

	_, err := f.reviews.Submit(ctx, reviewdomain.SubmitReviewRequest{
		RequesterID: user.ID.String(),
		WorkerID:    worker.ID.String(),
		Rating:      5,
		Comment:     "Great with kids",
		Tags:        "punctual,friendly",
	})
	require.NoError(t, err)

	resp, err := f.reviews.ListByWorker(ctx, reviewdomain.ListReviewsRequest{WorkerID: worker.ID.String()})
	require.NoError(t, err)
	require.Len(t, resp.Reviews, 1)
	assert.Equal(t, "Asha", resp.Reviews[0].ReviewerName)
	assert.Equal(t, "Mumbai", resp.Reviews[0].ReviewerCity)
	assert.Equal(t, 5, resp.Reviews[0].Rating)
	assert.Equal(t, "Great with kids", resp.Reviews[0].Comment)
	assert.Equal(t, 1, resp.RatingCount)
	assert.InDelta(t, 5.0, resp.RatingAvg, 0.001)
}

func TestSubmitConcurrentlyKeepsAggregateConsistent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	worker := f.seedWorker(t, "Lakshmi Devi")

	first := f.seedUser(t, "Asha", "+919900000007")
	second := f.seedUser(t, "Vikram", "+919900000008")
	f.unlock(t, first, worker)
	f.unlock(t, second, worker)

	submits := []struct {
		user   *directorydomain.User
		rating int
	}{
		{first, 5},
		{second, 1},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(submits))
	for i, submit := range submits {
		wg.Add(1)
		go func(i int, user *directorydomain.User, rating int) {
			defer wg.Done()
			_, errs[i] = f.reviews.Submit(ctx, reviewdomain.SubmitReviewRequest{
				RequesterID: user.ID.String(),
				WorkerID:    worker.ID.String(),
				Rating:      rating,
			})
		}(i, submit.user, submit.rating)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "submit %d", i)
	}

	updated, err := f.directory.ResolveWorker(ctx, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.RatingCount)
	assert.InDelta(t, 3.0, updated.RatingAvg, 0.001)
}

func TestApplyWorkerRatingFoldsRatingsInPlace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	worker := f.seedWorker(t, "Sunita Sharma")
	repo := directoryrepo.Provide()

	// Each call folds its rating into the stored row; no caller-side
	// snapshot of rating_count is involved.
	require.NoError(t, repo.ApplyWorkerRating(ctx, f.db, worker.ID, 5))
	require.NoError(t, repo.ApplyWorkerRating(ctx, f.db, worker.ID, 3))

	updated, err := repo.FindWorkerByID(ctx, f.db, worker.ID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 2, updated.RatingCount)
	assert.InDelta(t, 4.0, updated.RatingAvg, 0.001)

	err = repo.ApplyWorkerRating(ctx, f.db, f.node.Generate(), 4)
	assert.ErrorIs(t, err, directorydomain.ErrWorkerNotFound)
}
