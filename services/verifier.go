package services

import (
	"net/http"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
)

// IWebAuthnProvider is the slice of the go-webauthn API the orchestrator
// touches. *webauthn.WebAuthn satisfies it; tests substitute a spy.
type IWebAuthnProvider interface {
	BeginRegistration(user webauthn.User, opts ...webauthn.RegistrationOption) (*protocol.CredentialCreation, *webauthn.SessionData, error)
	CreateCredential(user webauthn.User, session webauthn.SessionData, response *protocol.ParsedCredentialCreationData) (*webauthn.Credential, error)
	BeginDiscoverableLogin(opts ...webauthn.LoginOption) (*protocol.CredentialAssertion, *webauthn.SessionData, error)
	ValidateLogin(user webauthn.User, session webauthn.SessionData, response *protocol.ParsedCredentialAssertionData) (*webauthn.Credential, error)
}

type ICeremonyParser interface {
	ParseRegistrationResponse(r *http.Request) (*protocol.ParsedCredentialCreationData, error)
	ParseLoginResponse(r *http.Request) (*protocol.ParsedCredentialAssertionData, error)
}

type CeremonyParser struct {
}

func NewCeremonyParser() ICeremonyParser {
	return &CeremonyParser{}
}

func (p *CeremonyParser) ParseRegistrationResponse(r *http.Request) (*protocol.ParsedCredentialCreationData, error) {
	return protocol.ParseCredentialCreationResponse(r)
}

func (p *CeremonyParser) ParseLoginResponse(r *http.Request) (*protocol.ParsedCredentialAssertionData, error) {
	return protocol.ParseCredentialRequestResponse(r)
}
