package model

import "time"

const (
	RoleAuditor = "auditor"
	RoleAdmin   = "admin"
)

// User 审核后台用户，绑定到一个场景
type User struct {
	ID           int64     `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FullName     string    `gorm:"size:100" json:"full_name"`
	ScenarioID   int64     `gorm:"not null" json:"scenario_id"`
	Role         string    `gorm:"size:20;not null;default:auditor" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
