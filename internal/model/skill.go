package model

import "time"

// SkillType 技能类型：可教 / 想学
type SkillType string

const (
	SkillTypeTeach SkillType = "teach"
	SkillTypeLearn SkillType = "learn"
)

// Valid 是否为合法的技能类型
func (t SkillType) Valid() bool {
	return t == SkillTypeTeach || t == SkillTypeLearn
}

// Skill 技能发布
// 每条技能属于一个用户，创建后不可修改

type Skill struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index;comment:所属用户ID" json:"userId"`
	Title       string    `gorm:"type:varchar(255);not null;comment:标题" json:"title"`
	Description string    `gorm:"type:text;not null;comment:描述" json:"description"`
	Category    string    `gorm:"type:varchar(64);not null;index;comment:分类" json:"category"`
	Type        SkillType `gorm:"type:varchar(16);not null;index;comment:类型(teach/learn)" json:"type"`
	CreatedAt   time.Time `gorm:"comment:创建时间" json:"createdAt"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Skill) TableName() string { return "skills" }

// SkillFilter 技能列表过滤条件，空值表示不过滤
type SkillFilter struct {
	Category string
	Search   string
	Type     SkillType
}
