package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/easyslot/easyslot/internal/entities"
)

var ErrUserNotFound = errors.New("user not found")

type Users struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *Users {
	return &Users{db: db}
}

func (repo *Users) Add(ctx context.Context, user entities.User) error {
	return repo.db.WithContext(ctx).Create(&user).Error
}

func (repo *Users) GetByEmail(ctx context.Context, email string) (*entities.User, error) {

	var user entities.User
	err := repo.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (repo *Users) GetAll(ctx context.Context) ([]entities.User, error) {

	var users []entities.User
	if err := repo.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *Users) Update(ctx context.Context, user entities.User) error {

	result := repo.db.WithContext(ctx).Model(&entities.User{}).
		Where("email = ?", user.Email).Updates(user)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (repo *Users) Remove(ctx context.Context, email string) error {

	result := repo.db.WithContext(ctx).Delete(&entities.User{Email: email})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
