package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents an account stored in the users collection.
type User struct {
	ID                 primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Email              string             `json:"email" bson:"email"`
	Username           string             `json:"username" bson:"username"`
	Password           string             `json:"-" bson:"password"` // bcrypt hash, never serialized
	Role               Role               `json:"role" bson:"role"`
	FullName           string             `json:"fullName,omitempty" bson:"fullName,omitempty"`
	Avatar             string             `json:"avatar,omitempty" bson:"avatar,omitempty"`
	ResetPasswordToken string             `json:"-" bson:"resetPasswordToken,omitempty"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
}

// AuthUser is the identity snapshot embedded in session tokens and returned
// by login. The password hash rides along so an expired token can be renewed
// against the stored credentials; changing the password therefore invalidates
// every outstanding token.
type AuthUser struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id"`
	Email    string             `json:"email" bson:"email"`
	Password string             `json:"password" bson:"password"`
	Role     Role               `json:"role" bson:"role"`
}

// AuthUser builds the token snapshot for a user.
func (u *User) AuthUser() AuthUser {
	return AuthUser{ID: u.ID, Email: u.Email, Password: u.Password, Role: u.Role}
}

// PublicUser is the profile shape exposed to other users.
type PublicUser struct {
	ID        primitive.ObjectID `json:"_id"`
	Username  string             `json:"username"`
	FullName  string             `json:"fullName,omitempty"`
	Avatar    string             `json:"avatar,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
}

// Public strips a user down to its displayable fields.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	NewPassword string `json:"newPassword"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" query:"email"`
}

type ResetPasswordRequest struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	FullName string `json:"fullName" validate:"omitempty,max=100"`
	Avatar   string `json:"avatar" validate:"omitempty,max=2048"`
}
