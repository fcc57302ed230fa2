package model

import (
	"time"

	"gorm.io/gorm"
)

// TokenBlacklist stores an HMAC fingerprint of revoked access tokens, never the raw token.
type TokenBlacklist struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Token     string         `gorm:"type:varchar(64);not null;unique" json:"token"`
	ExpiredAt time.Time      `gorm:"not null;index" json:"expired_at"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName: singular, unlike the GORM default.
func (TokenBlacklist) TableName() string {
	return "token_blacklist"
}
