package service

import (
	"errors"
	"time"

	"trailhunt_backend/internal/config"
	"trailhunt_backend/internal/model"
	"trailhunt_backend/internal/repository"
	"trailhunt_backend/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo    *repository.UserRepository
	SessionRepo *repository.DeviceSessionRepository
	Cfg         *config.Config
	DB          *gorm.DB
}

func NewAuthService(userRepo *repository.UserRepository, sessionRepo *repository.DeviceSessionRepository, cfg *config.Config, db *gorm.DB) *AuthService {
	return &AuthService{
		UserRepo:    userRepo,
		SessionRepo: sessionRepo,
		Cfg:         cfg,
		DB:          db,
	}
}

func (s *AuthService) Register(user *model.User) error {
	_, err := s.UserRepo.FindByUsername(user.Username)
	if err == nil {
		return util.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	return s.UserRepo.Create(user)
}

// Login 校验凭据并把新设备写成当前设备。写入即生效：
// 其他设备上已签发的令牌在下一次请求就会被判定过期
func (s *AuthService) Login(username, password, deviceID string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByUsername(username)
	if err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	now := time.Now()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.User{}).
			Where("id = ?", user.ID).
			Updates(map[string]interface{}{
				"current_device_id": deviceID,
				"last_login":        now,
			}).Error; err != nil {
			return err
		}
		return s.SessionRepo.Upsert(tx, user.ID, deviceID)
	})
	if err != nil {
		return "", nil, err
	}
	user.CurrentDeviceID = deviceID
	user.LastLogin = now

	token, err := util.GenerateJWT(user, deviceID, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout 清空当前设备，旧令牌随之失效
func (s *AuthService) Logout(userID uint) error {
	return s.UserRepo.ClearCurrentDevice(userID)
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.UserRepo.FindByID(claims.UserID)
	return user
}

// DeviceHistory 该用户登录过的设备，按最近活跃排序
func (s *AuthService) DeviceHistory(userID uint) ([]model.DeviceSession, error) {
	return s.SessionRepo.ListByUser(userID)
}
