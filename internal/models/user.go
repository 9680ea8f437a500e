// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is an account in the directory. Wheelers are users flagged as
// wheeled-mobility-device users; admins review verification applications.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:60;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	IsWheeler    bool      `gorm:"not null;default:false" json:"is_wheeler"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SetPassword hashes and stores the given plaintext password.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the given plaintext matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// Actor is the authenticated caller of a workflow operation, resolved per
// request from the user record. Capability checks are explicit: workflows
// inspect Wheeler/Admin rather than duck-typing the user.
type Actor struct {
	UserID  uint
	Wheeler bool
	Admin   bool
}

// Anonymous reports whether the actor is unauthenticated.
func (a Actor) Anonymous() bool {
	return a.UserID == 0
}

// ActorFromUser derives the actor capabilities from a user record.
func ActorFromUser(u *User) Actor {
	if u == nil {
		return Actor{}
	}
	return Actor{
		UserID:  u.ID,
		Wheeler: u.IsWheeler,
		Admin:   u.IsAdmin,
	}
}
