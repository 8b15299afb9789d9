package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/househelp/househelp/internal/bgv/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, request *domain.BGVRequest) error {
	return db.WithContext(ctx).Create(request).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.BGVRequest, error) {
	var request domain.BGVRequest
	err := db.WithContext(ctx).
		Model(&domain.BGVRequest{}).
		Where("id = ?", id).
		Limit(1).
		Find(&request).Error
	if err != nil {
		return nil, err
	}
	if request.ID == 0 {
		return nil, nil
	}
	return &request, nil
}

// UpdateFromStatus writes the new status only if the row still holds
// the status the transition was checked against, and reports how many
// rows matched. Zero means another writer moved the request first.
func (r *repo) UpdateFromStatus(ctx context.Context, db *gorm.DB, request *domain.BGVRequest, fromStatus string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.BGVRequest{}).
		Where("id = ? AND status = ?", request.ID, fromStatus).
		Updates(map[string]interface{}{
			"status":     request.Status,
			"report_url": request.ReportURL,
			"updated_at": request.UpdatedAt,
		})
	return res.RowsAffected, res.Error
}
