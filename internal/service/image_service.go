package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"termophysics_backend/internal/config"
	"termophysics_backend/internal/util"
	"time"

	"github.com/go-redis/redis/v8"
)

// ImageService renders physics illustrations through a Hugging Face
// style inference endpoint and stores the result in object storage.
// A per-user daily counter in redis caps usage.
type ImageService struct {
	config  config.ImageGenConfig
	rdb     *redis.Client
	storage *StorageService
}

func NewImageService(cfg config.ImageGenConfig, rdb *redis.Client, storage *StorageService) *ImageService {
	return &ImageService{config: cfg, rdb: rdb, storage: storage}
}

type GeneratedImage struct {
	URL       string `json:"url"`
	Remaining int    `json:"remaining"`
}

func quotaKey(userID uint) string {
	return fmt.Sprintf("imggen:quota:%d:%s", userID, time.Now().UTC().Format("2006-01-02"))
}

// consumeQuota increments the user's daily counter and fails once the
// cap is passed. The key expires at the end of the UTC day.
func (s *ImageService) consumeQuota(ctx context.Context, userID uint) (int, error) {
	if s.rdb == nil {
		return s.config.DailyQuota, nil
	}

	key := quotaKey(userID)
	count, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		now := time.Now().UTC()
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
		s.rdb.ExpireAt(ctx, key, midnight)
	}
	if int(count) > s.config.DailyQuota {
		return 0, util.ErrImageQuotaExceeded
	}
	return s.config.DailyQuota - int(count), nil
}

func (s *ImageService) Remaining(ctx context.Context, userID uint) int {
	if s.rdb == nil {
		return s.config.DailyQuota
	}
	used, err := s.rdb.Get(ctx, quotaKey(userID)).Int()
	if err != nil {
		return s.config.DailyQuota
	}
	remaining := s.config.DailyQuota - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// Generate renders one image for the prompt and uploads it, returning
// the stored URL and the user's remaining quota.
func (s *ImageService) Generate(ctx context.Context, userID uint, prompt string) (*GeneratedImage, error) {
	remaining, err := s.consumeQuota(ctx, userID)
	if err != nil {
		return nil, err
	}

	payload, _ := json.Marshal(map[string]string{"inputs": prompt})
	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	client := &http.Client{Timeout: 120 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("image API error (status %d): %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("generated/%d/%d.png", userID, time.Now().UnixMilli())
	url, err := s.storage.Upload(ctx, objectName, bytes.NewReader(data), int64(len(data)), "image/png")
	if err != nil {
		return nil, err
	}

	return &GeneratedImage{URL: url, Remaining: remaining}, nil
}
