package domain

import (
	"strings"
	"time"
)

const (
	// AuthenticatorKindPlatform is the only kind accepted at registration.
	AuthenticatorKindPlatform      = "platform"
	AuthenticatorKindCrossPlatform = "cross-platform"
)

type Passkey struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	EmployeeID uint `gorm:"not null;index" json:"employee_id"`
	// CredentialID is stored exactly as the client sent it during registration.
	// Authentication lookups are exact-match on this column.
	CredentialID string     `gorm:"size:512;not null;uniqueIndex" json:"credential_id"`
	PublicKey    string     `gorm:"type:text;not null" json:"-"`
	SignCount    uint32     `gorm:"not null" json:"sign_count"`
	Transports   string     `gorm:"size:255" json:"transports"`
	Label        string     `gorm:"size:100;not null" json:"label"`
	Kind         string     `gorm:"size:32;not null" json:"kind"`
	LastUsedAt   *time.Time `gorm:"default:null" json:"last_used_at"`
	Active       bool       `gorm:"not null;default:true" json:"active"`
	CreatedAt    *time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    *time.Time `gorm:"default:null" json:"updated_at"`
}

func (Passkey) TableName() string {
	return "employee_passkeys"
}

// TransportList splits the stored comma-joined transport hints.
func (p *Passkey) TransportList() []string {
	if p.Transports == "" {
		return nil
	}
	return strings.Split(p.Transports, ",")
}

func JoinTransports(transports []string) string {
	return strings.Join(transports, ",")
}
