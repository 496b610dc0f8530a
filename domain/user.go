package domain

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User mirrors the account record owned by the identity service. The
// engine reads it for explicit attributes only; explicit values always
// take precedence over inferred ones.
type User struct {
	ID        uint                        `gorm:"primaryKey"`
	FullName  string                      `gorm:"column:full_name;not null"`
	Email     string                      `gorm:"column:email;unique;not null"`
	Role      string                      `gorm:"column:role;default:member"`
	Gender    string                      `gorm:"column:gender"`
	BirthYear int                         `gorm:"column:birth_year"`
	City      string                      `gorm:"column:city"`
	Region    string                      `gorm:"column:region"`
	Country   string                      `gorm:"column:country"`
	Interests datatypes.JSONSlice[string] `gorm:"column:interests;type:jsonb"`
	Skills    datatypes.JSONSlice[string] `gorm:"column:skills;type:jsonb"`
	Budget    float64                     `gorm:"column:budget;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
