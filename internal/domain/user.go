package domain

import (
	"context"
	"time"
)

const (
	RoleUser  = "user"
	RoleStaff = "staff"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email        string    `gorm:"size:191" json:"email"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Bio          string    `gorm:"size:500" json:"bio"`
	Avatar       string    `gorm:"size:255" json:"avatar"`
	Role         string    `gorm:"size:16;not null;default:user" json:"role"` // "user"/"staff"
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

func (u *User) IsStaff() bool { return u.Role == RoleStaff }

// Actor 当前操作者，nil 表示匿名
type Actor struct {
	ID    string
	Staff bool
}

// CanModify 作者本人或 staff
func (a *Actor) CanModify(ownerID string) bool {
	if a == nil {
		return false
	}
	return a.Staff || a.ID == ownerID
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context, offset, limit int) ([]User, int64, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
}
