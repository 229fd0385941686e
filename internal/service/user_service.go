package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"termophysics_backend/internal/model"
	"termophysics_backend/internal/repository"
	"termophysics_backend/internal/util"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	Repo    *repository.UserRepository
	Storage *StorageService
}

func NewUserService(repo *repository.UserRepository, storage *StorageService) *UserService {
	return &UserService{Repo: repo, Storage: storage}
}

type UpdateProfileReq struct {
	DisplayName string `json:"displayName" binding:"omitempty,min=2,max=50"`
	Password    string `json:"password" binding:"omitempty,min=6"`
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.Repo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateProfile(userID uint, req UpdateProfileReq) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != "" {
		user.DisplayName = req.DisplayName
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if err := s.Repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateAvatar uploads the new avatar image and stores its URL.
func (s *UserService) UpdateAvatar(ctx context.Context, userID uint, file io.Reader, fileName string, fileSize int64, contentType string) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("avatars/%d/%d-%s", userID, time.Now().UnixMilli(), fileName)
	url, err := s.Storage.Upload(ctx, objectName, file, fileSize, contentType)
	if err != nil {
		return nil, err
	}

	user.Avatar = url
	if err := s.Repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
