package model

import "time"

// SwapStatus 交换请求状态
// 状态机：pending -> accepted | rejected，终态不可再变更
type SwapStatus string

const (
	SwapStatusPending  SwapStatus = "pending"
	SwapStatusAccepted SwapStatus = "accepted"
	SwapStatusRejected SwapStatus = "rejected"
)

// Terminal 是否为终态
func (s SwapStatus) Terminal() bool {
	return s == SwapStatusAccepted || s == SwapStatusRejected
}

// ValidTarget 是否为允许的目标状态
func (s SwapStatus) ValidTarget() bool {
	return s.Terminal()
}

// SwapRequest 技能交换请求
// SkillID 通常属于 Receiver，但不做强制约束

type SwapRequest struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	SenderID   uint       `gorm:"not null;index;comment:发起者ID" json:"senderId"`
	ReceiverID uint       `gorm:"not null;index;comment:接收者ID" json:"receiverId"`
	SkillID    uint       `gorm:"not null;index;comment:技能ID" json:"skillId"`
	Status     SwapStatus `gorm:"type:varchar(16);not null;default:'pending';index;comment:状态" json:"status"`
	Message    *string    `gorm:"type:text;comment:附言" json:"message"`
	CreatedAt  time.Time  `gorm:"comment:创建时间" json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"comment:更新时间" json:"updatedAt"`

	Sender   *User  `gorm:"foreignKey:SenderID" json:"-"`
	Receiver *User  `gorm:"foreignKey:ReceiverID" json:"-"`
	Skill    *Skill `gorm:"foreignKey:SkillID" json:"skill,omitempty"`
}

func (SwapRequest) TableName() string { return "swap_requests" }

// OtherParty 返回相对于 userID 的另一方
func (r *SwapRequest) OtherParty(userID uint) *User {
	if r.SenderID == userID {
		return r.Receiver
	}
	return r.Sender
}

// SwapRequestDetail 列表视图：附带技能与对方用户
type SwapRequestDetail struct {
	SwapRequest
	OtherUser *User `json:"otherUser"`
}
