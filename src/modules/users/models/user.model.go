package users

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint      `json:"userId" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	FullName     string    `json:"fullName" gorm:"type:varchar(100)"`
	Age          *int      `json:"age"`
	Email        *string   `json:"email" gorm:"type:varchar(255);uniqueIndex"`
	Role         string    `json:"role" gorm:"type:varchar(50);not null;default:user"`
	Version      int       `json:"version" gorm:"not null;default:1"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// MigrateUsers also adds a unique index on LOWER(username): usernames differing
// only in case are the same account.
func MigrateUsers(db *gorm.DB) error {
	if err := db.AutoMigrate(&User{}); err != nil {
		return err
	}
	return db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_lower ON users (LOWER(username))").Error
}
