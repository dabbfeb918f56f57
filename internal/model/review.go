package model

import "time"

// Review 用户评价
// Rating 不限制取值范围；同一作者可重复评价

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuthorID  uint      `gorm:"not null;index;comment:评价者ID" json:"authorId"`
	TargetID  uint      `gorm:"not null;index;comment:被评价者ID" json:"targetId"`
	Rating    int       `gorm:"not null;comment:评分" json:"rating"`
	Feedback  string    `gorm:"type:text;not null;comment:评价内容" json:"feedback"`
	CreatedAt time.Time `gorm:"comment:创建时间" json:"createdAt"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Target *User `gorm:"foreignKey:TargetID" json:"-"`
}

func (Review) TableName() string { return "reviews" }
