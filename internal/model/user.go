package model

import "time"

// User 用户模型
// Username 即登录邮箱，全局唯一
// 说明：密码仅存储哈希（PasswordHash），不参与JSON序列化
// Bio/Location/Availability/AvatarURL 为可选资料，nil 表示未填写

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(128);not null;uniqueIndex;comment:登录名(邮箱)" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null;comment:密码哈希" json:"-"`
	Name         string    `gorm:"type:varchar(128);not null;comment:显示名称" json:"name"`
	Bio          *string   `gorm:"type:text;comment:个人简介" json:"bio"`
	Location     *string   `gorm:"type:varchar(128);comment:所在地" json:"location"`
	Availability *string   `gorm:"type:varchar(255);comment:可约时间" json:"availability"`
	AvatarURL    *string   `gorm:"column:avatar_url;type:varchar(512);comment:头像URL" json:"avatarUrl"`
	CreatedAt    time.Time `gorm:"comment:创建时间" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"comment:更新时间" json:"updatedAt"`
}

// TableName 表名与原有 schema 保持一致
func (User) TableName() string { return "users" }

// UserPatch 资料更新的可选字段，nil 表示不修改
type UserPatch struct {
	Name         *string
	Bio          *string
	Location     *string
	Availability *string
	AvatarURL    *string
	Password     *string
}
