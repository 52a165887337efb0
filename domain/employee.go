package domain

import (
	"encoding/base64"
	"strconv"
	"time"

	"github.com/go-webauthn/webauthn/webauthn"
)

type Employee struct {
	Id          uint       `gorm:"primaryKey" json:"id"`
	CreatedAt   *time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"default:null" json:"updated_at"`
	DeletedAt   *time.Time `gorm:"default:null" json:"deleted_at"`
	Email       string     `gorm:"size:100;not null;uniqueIndex" json:"email"`
	FirstName   string     `gorm:"size:100;not null" json:"first_name"`
	LastName    string     `gorm:"size:100;not null" json:"last_name"`
	DisplayName string     `gorm:"size:200" json:"display_name"`
	Passkeys    []Passkey  `gorm:"foreignKey:EmployeeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"passkeys"`
}

func (Employee) TableName() string {
	return "employees"
}

// WebAuthnID is the protocol user handle. It must stay stable for the
// lifetime of the employee, authenticators key resident credentials on it.
func (e Employee) WebAuthnID() []byte {
	return []byte(strconv.Itoa(int(e.Id)))
}

func (e Employee) WebAuthnName() string {
	return e.Email
}

func (e Employee) WebAuthnDisplayName() string {
	if e.DisplayName != "" {
		return e.DisplayName
	}
	if e.FirstName != "" || e.LastName != "" {
		return e.FirstName + " " + e.LastName
	}
	return e.Email
}

// WebAuthnCredentials exposes only active passkeys to the ceremony
// verifier. Deactivated credentials must never satisfy an assertion.
func (e Employee) WebAuthnCredentials() []webauthn.Credential {
	var creds []webauthn.Credential
	for _, p := range e.Passkeys {
		if !p.Active {
			continue
		}
		key, err := base64.StdEncoding.DecodeString(p.PublicKey)
		if err != nil {
			continue
		}
		id, err := base64.RawURLEncoding.DecodeString(p.CredentialID)
		if err != nil {
			continue
		}
		creds = append(creds, webauthn.Credential{
			ID:        id,
			PublicKey: key,
			Authenticator: webauthn.Authenticator{
				SignCount: p.SignCount,
			},
		})
	}
	return creds
}
