package models

// User represents a registered participant of the collection program.
type User struct {
	ID       int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name     string `json:"name" gorm:"type:varchar(100)"`
	Email    string `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	Password string `json:"password" gorm:"type:varchar(255)"` // Stored as-is; a bcrypt hash when hashing is enabled
	Points   int    `json:"points" gorm:"not null;default:0"`
}
