package model

type Conversation struct {
	UUIDBase
	UserID uint   `gorm:"index;type:bigint unsigned" json:"userId"`
	Title  string `gorm:"size:255;not null" json:"title"`
}

func (Conversation) TableName() string {
	return "conversations"
}

type Message struct {
	UUIDBase
	ConversationID string `gorm:"index;type:varchar(36)" json:"conversationId"`
	Role           string `gorm:"size:20;not null" json:"role"` // user / assistant
	Content        string `gorm:"type:text" json:"content"`
	ImageURL       string `gorm:"type:text" json:"imageUrl,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}
