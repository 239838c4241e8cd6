package users

import "time"

// User represents an account record. The password column holds a bcrypt hash
// and is never serialized.
type User struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	ExtID     string    `json:"ext_id" gorm:"column:ext_id;unique;not null"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Email     string    `json:"email" gorm:"type:varchar(255);unique;not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"`
	Role      string    `json:"role" gorm:"type:enum('admin','vendor','customer');default:'customer';not null"`
	Address   string    `json:"address" gorm:"type:varchar(255)"`
	Phone     string    `json:"phone" gorm:"type:varchar(32)"`
	IsActive  bool      `json:"is_active" gorm:"default:true;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// Request DTOs

type UserRegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Address  string `json:"address" validate:"max=255"`
	Phone    string `json:"phone" validate:"max=32"`
}

type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name    string `json:"name" validate:"omitempty,min=2,max=100"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address" validate:"omitempty,max=255"`
	Phone   string `json:"phone" validate:"omitempty,max=32"`
}

type UpdateStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// Response DTOs

// UserProfile is the public projection of a user row; it is also the shape
// returned alongside tokens on login.
type UserProfile struct {
	ExtID     string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileOf maps a user row to its public projection.
func ProfileOf(u *User) *UserProfile {
	return &UserProfile{
		ExtID:     u.ExtID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Address:   u.Address,
		Phone:     u.Phone,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
