package repository

import (
	"trailhunt_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *UserRepository) ListParticipants() ([]model.User, error) {
	var users []model.User
	err := r.DB.Where("role = ?", model.Participant).Order("username ASC").Find(&users).Error
	return users, err
}

// CurrentDeviceID 会话校验的热路径，只取单列
func (r *UserRepository) CurrentDeviceID(userID uint) (string, error) {
	var user model.User
	err := r.DB.Select("current_device_id").First(&user, userID).Error
	return user.CurrentDeviceID, err
}

func (r *UserRepository) ClearCurrentDevice(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("current_device_id", "").Error
}
