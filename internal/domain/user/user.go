package user

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID                  uint                        `gorm:"primaryKey" json:"id"`
	Email               string                      `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password            string                      `gorm:"not null;column:password" json:"-"`
	Name                string                      `gorm:"column:name" json:"name"`
	PreferredDifficulty string                      `gorm:"column:preferred_difficulty;not null;default:medium" json:"preferred_difficulty"`
	Subjects            datatypes.JSONSlice[string] `gorm:"column:subjects" json:"subjects"`
	IsAdmin             bool                        `gorm:"column:is_admin;not null;default:false" json:"is_admin"`
	CreatedAt           time.Time                   `gorm:"not null;index" json:"created_at"`
	UpdatedAt           time.Time                   `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }

// SubjectList returns the subjects as a plain slice, never nil.
func (u *User) SubjectList() []string {
	if u == nil || len(u.Subjects) == 0 {
		return []string{}
	}
	return []string(u.Subjects)
}
