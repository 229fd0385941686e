package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"termophysics_backend/internal/model"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const recentMessagesTTL = 10 * time.Minute

type ConversationRepository struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewConversationRepository(db *gorm.DB, rdb *redis.Client) *ConversationRepository {
	return &ConversationRepository{DB: db, RDB: rdb}
}

func (r *ConversationRepository) Create(conv *model.Conversation) error {
	return r.DB.Create(conv).Error
}

func (r *ConversationRepository) FindByID(id string) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.DB.First(&conv, "id = ?", id).Error
	return &conv, err
}

func (r *ConversationRepository) ListByUser(userID uint) ([]model.Conversation, error) {
	var cs []model.Conversation
	err := r.DB.Where("user_id = ?", userID).
		Order("updated_at desc").Find(&cs).Error
	return cs, err
}

func (r *ConversationRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Conversation{}, "id = ?", id).Error
	})
}

func (r *ConversationRepository) Rename(id, title string) error {
	return r.DB.Model(&model.Conversation{}).Where("id = ?", id).
		Update("title", title).Error
}

func (r *ConversationRepository) AppendMessage(msg *model.Message) error {
	if err := r.DB.Create(msg).Error; err != nil {
		return err
	}
	// Bump the conversation for sidebar ordering and drop the stale
	// history cache.
	r.DB.Model(&model.Conversation{}).Where("id = ?", msg.ConversationID).
		Update("updated_at", time.Now())
	if r.RDB != nil {
		r.RDB.Del(context.Background(), recentMessagesKey(msg.ConversationID))
	}
	return nil
}

func (r *ConversationRepository) ListMessages(conversationID string) ([]model.Message, error) {
	var ms []model.Message
	err := r.DB.Where("conversation_id = ?", conversationID).
		Order("created_at asc").Find(&ms).Error
	return ms, err
}

// RecentMessages returns the last n messages, served from redis when
// the cache is warm.
func (r *ConversationRepository) RecentMessages(ctx context.Context, conversationID string, n int) ([]model.Message, error) {
	key := recentMessagesKey(conversationID)

	if r.RDB != nil {
		if cached, err := r.RDB.Get(ctx, key).Bytes(); err == nil {
			var ms []model.Message
			if json.Unmarshal(cached, &ms) == nil && len(ms) > 0 {
				return ms, nil
			}
		}
	}

	var ms []model.Message
	err := r.DB.Where("conversation_id = ?", conversationID).
		Order("created_at desc").Limit(n).Find(&ms).Error
	if err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(ms)-1; i < j; i, j = i+1, j-1 {
		ms[i], ms[j] = ms[j], ms[i]
	}

	if r.RDB != nil && len(ms) > 0 {
		if data, err := json.Marshal(ms); err == nil {
			r.RDB.Set(ctx, key, data, recentMessagesTTL)
		}
	}
	return ms, nil
}

func recentMessagesKey(conversationID string) string {
	return fmt.Sprintf("conv:%s:recent", conversationID)
}
