package model

import "time"

type LoginType string

const (
	LoginTypeLocal  LoginType = "LOCAL"
	LoginTypeGoogle LoginType = "GOOGLE"
)

type User struct {
	ID              int64     `gorm:"column:user_id;primaryKey;autoIncrement"`
	Email           string    `gorm:"column:email;size:255;not null;uniqueIndex"`
	PasswordHash    *string   `gorm:"column:password;size:255"` // nil for federated-only accounts
	Nickname        string    `gorm:"column:nickname;size:50;not null;uniqueIndex"`
	PhoneNumber     string    `gorm:"column:phone_number;size:20"`
	ProfileImageURL string    `gorm:"column:profile_image_url;size:500"`
	LoginType       LoginType `gorm:"column:login_type;size:16;not null"`
	GoogleID        *string   `gorm:"column:google_id;size:255;uniqueIndex"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (User) TableName() string { return "users" }

type UserInfo struct {
	UserID          int64     `json:"userId"`
	Email           string    `json:"email"`
	Nickname        string    `json:"nickname"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty"`
	LoginType       LoginType `json:"loginType"`
	IsNewUser       bool      `json:"isNewUser"`
}

// AuthResponse is the token bundle handed back after a successful
// authentication. RefreshToken and User are empty on the refresh path.
type AuthResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	TokenType    string    `json:"tokenType"`
	ExpiresIn    int64     `json:"expiresIn"`
	User         *UserInfo `json:"user,omitempty"`
}

type UserProfile struct {
	UserID          int64     `json:"userId"`
	Email           string    `json:"email"`
	Nickname        string    `json:"nickname"`
	PhoneNumber     string    `json:"phoneNumber,omitempty"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty"`
	LoginType       LoginType `json:"loginType"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// GoogleIdentity is the subset of a verified Google ID token payload the
// linker needs.
type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

type Availability struct {
	Available bool `json:"available"`
}
