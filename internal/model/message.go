package model

import "time"

// Message 私聊消息
// 创建后不可修改，按 CreatedAt、ID 升序排列

type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;index:idx_message_pair,priority:1;comment:发送者ID" json:"senderId"`
	ReceiverID uint      `gorm:"not null;index:idx_message_pair,priority:2;comment:接收者ID" json:"receiverId"`
	Content    string    `gorm:"type:text;not null;comment:消息内容" json:"content"`
	CreatedAt  time.Time `gorm:"index;comment:创建时间" json:"createdAt"`

	Sender   *User `gorm:"foreignKey:SenderID" json:"-"`
	Receiver *User `gorm:"foreignKey:ReceiverID" json:"-"`
}

func (Message) TableName() string { return "messages" }
