package entity

import (
	"time"
)

type Avatar struct {
	ID  string `json:"id,omitempty" firestore:"id,omitempty"`
	URL string `json:"url,omitempty" firestore:"url,omitempty"`
}

type User struct {
	ID       string `json:"id" firestore:"id"`
	Name     string `json:"name" firestore:"name"`
	Email    string `json:"email" firestore:"email"`
	Password string `json:"-" firestore:"password"`
	Role     string `json:"role" firestore:"role"` // "buyer", "seller", "admin"
	Avatar   Avatar `json:"avatar,omitempty" firestore:"avatar,omitempty"`
	Bio      string `json:"bio,omitempty" firestore:"bio,omitempty"`

	// Password reset state. The token is stored as a sha256 hash of the raw
	// token that was mailed out; it is cleared on first successful use.
	ResetPasswordToken  string     `json:"-" firestore:"resetPasswordToken,omitempty"`
	ResetPasswordExpire *time.Time `json:"-" firestore:"resetPasswordExpire,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
