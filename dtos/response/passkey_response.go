package response

import (
	"time"

	"github.com/go-webauthn/webauthn/protocol"
)

// PasskeySummary is the only credential projection exposed over the API.
// Key material, counters and raw credential ids stay server-side.
type PasskeySummary struct {
	ID         uint       `json:"id"`
	Label      string     `json:"label"`
	Kind       string     `json:"kind"`
	CreatedAt  *time.Time `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
	Active     bool       `json:"active"`
}

type MfaStatusResponse struct {
	Enabled     bool  `json:"enabled"`
	ActiveCount int64 `json:"active_count"`
}

type StartRegistrationResponse struct {
	Options *protocol.CredentialCreation `json:"options"`
	TraceID string                       `json:"trace_id"`
}

type FinishRegistrationResponse struct {
	Verified bool            `json:"verified"`
	Passkey  *PasskeySummary `json:"passkey"`
	TraceID  string          `json:"trace_id"`
}

type StartLoginResponse struct {
	MfaRequired bool                          `json:"mfa_required"`
	Options     *protocol.CredentialAssertion `json:"options,omitempty"`
	TraceID     string                        `json:"trace_id,omitempty"`
}

type FinishLoginResponse struct {
	Verified bool   `json:"verified"`
	TraceID  string `json:"trace_id"`
}
