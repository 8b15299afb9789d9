package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	directorydomain "github.com/househelp/househelp/internal/directory/domain"
	"gorm.io/gorm"
)

const demoUserPhone = "9000000001"

var demoWorkers = []directorydomain.Worker{
	{
		Name:            "Lakshmi Devi",
		Phone:           "9000000101",
		Category:        "maid",
		City:            "Bengaluru",
		Locality:        "Indiranagar",
		ExpectedSalary:  9000,
		ExperienceYears: 6,
		Languages:       "Kannada,Hindi",
		Verified:        true,
	},
	{
		Name:            "Ramesh Kumar",
		Phone:           "9000000102",
		Category:        "cook",
		City:            "Bengaluru",
		Locality:        "Koramangala",
		ExpectedSalary:  12000,
		ExperienceYears: 9,
		Languages:       "Hindi,English",
		Verified:        false,
	},
	{
		Name:            "Sunita Sharma",
		Phone:           "9000000103",
		Category:        "babysitter",
		City:            "Hyderabad",
		Locality:        "Gachibowli",
		ExpectedSalary:  15000,
		ExperienceYears: 4,
		Languages:       "Telugu,Hindi",
		Verified:        true,
	},
}

// EnsureDemoData seeds a sample customer and a few workers so local
// environments are browsable right after startup. Idempotent by phone.
func EnsureDemoData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureDemoUser(ctx, tx, node); err != nil {
			return err
		}
		for _, worker := range demoWorkers {
			if err := ensureDemoWorker(ctx, tx, node, worker); err != nil {
				return err
			}
		}
		return nil
	})
}

func ensureDemoUser(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var user directorydomain.User
	err := tx.WithContext(ctx).Where("phone = ?", demoUserPhone).First(&user).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	user = directorydomain.User{
		ID:        node.Generate(),
		Phone:     demoUserPhone,
		Name:      "Demo Customer",
		City:      "Bengaluru",
		Role:      "customer",
		CreatedAt: time.Now().UTC(),
	}
	return tx.WithContext(ctx).Create(&user).Error
}

func ensureDemoWorker(ctx context.Context, tx *gorm.DB, node *snowflake.Node, worker directorydomain.Worker) error {
	var existing directorydomain.Worker
	err := tx.WithContext(ctx).Where("phone = ?", worker.Phone).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	worker.ID = node.Generate()
	worker.Active = true
	worker.CreatedAt = time.Now().UTC()
	return tx.WithContext(ctx).Create(&worker).Error
}
