package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/househelp/househelp/internal/directory/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertUser(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).Create(user).Error
}

func (r *repo) FindUserByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).Raw(
		`SELECT id, phone, name, city, role, created_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, nil
	}
	return &user, nil
}

func (r *repo) FindUserByPhone(ctx context.Context, db *gorm.DB, phone string) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).Raw(
		`SELECT id, phone, name, city, role, created_at
		 FROM users WHERE phone = ?`,
		phone,
	).Scan(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, nil
	}
	return &user, nil
}

func (r *repo) InsertWorker(ctx context.Context, db *gorm.DB, worker *domain.Worker) error {
	return db.WithContext(ctx).Create(worker).Error
}

func (r *repo) FindWorkerByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Worker, error) {
	var worker domain.Worker
	err := db.WithContext(ctx).
		Model(&domain.Worker{}).
		Where("id = ?", id).
		Limit(1).
		Find(&worker).Error
	if err != nil {
		return nil, err
	}
	if worker.ID == 0 {
		return nil, nil
	}
	return &worker, nil
}

// ApplyWorkerRating folds one rating into the stored aggregate in a
// single statement so concurrent writers cannot apply values computed
// from a stale snapshot of rating_count.
func (r *repo) ApplyWorkerRating(ctx context.Context, db *gorm.DB, id snowflake.ID, rating int) error {
	res := db.WithContext(ctx).Exec(
		`UPDATE workers
		 SET rating_avg = (rating_avg * rating_count + ?) / (rating_count + 1),
		     rating_count = rating_count + 1
		 WHERE id = ?`,
		rating, id,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrWorkerNotFound
	}
	return nil
}
