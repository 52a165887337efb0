package services

import (
	"encoding/base64"
	"net/http"
	"time"

	"passkey_mfa_ms/domain"
	"passkey_mfa_ms/dtos/request"
	"passkey_mfa_ms/dtos/response"
	"passkey_mfa_ms/errs"
	"passkey_mfa_ms/repository"
	"passkey_mfa_ms/util"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const fallbackPasskeyLabel = "Passkey"

type IPasskeyService interface {
	RegisterStart(employeeID uint, req *request.StartPasskeyRegistrationRequest) (*response.StartRegistrationResponse, error)
	RegisterFinish(employeeID uint, label string, r *http.Request) (*response.FinishRegistrationResponse, error)
	LoginStart(email string) (*response.StartLoginResponse, error)
	LoginFinish(email string, r *http.Request) (*response.FinishLoginResponse, error)
	List(employeeID uint) ([]response.PasskeySummary, error)
	Status(employeeID uint) (*response.MfaStatusResponse, error)
	Rename(employeeID uint, passkeyID uint, label string) (*response.PasskeySummary, error)
	Deactivate(employeeID uint, passkeyID uint) error
	Delete(employeeID uint, passkeyID uint) error
}

type PasskeyService struct {
	db           *gorm.DB
	employeeRepo repository.IEmployeeRepository
	passkeyRepo  repository.IPasskeyRepository
	provider     IWebAuthnProvider
	parser       ICeremonyParser
	challenges   IChallengeService
	audit        IAuditService
	logger       *zap.Logger
}

func NewPasskeyService(
	db *gorm.DB,
	employeeRepo repository.IEmployeeRepository,
	passkeyRepo repository.IPasskeyRepository,
	provider IWebAuthnProvider,
	parser ICeremonyParser,
	challenges IChallengeService,
	audit IAuditService,
	logger *zap.Logger,
) IPasskeyService {
	return &PasskeyService{
		db:           db,
		employeeRepo: employeeRepo,
		passkeyRepo:  passkeyRepo,
		provider:     provider,
		parser:       parser,
		challenges:   challenges,
		audit:        audit,
		logger:       logger,
	}
}

// RegisterStart begins a registration ceremony. The nonce embedded in the
// returned creation options is the one persisted in the challenge store,
// issuing again before finishing invalidates the earlier nonce.
func (ps *PasskeyService) RegisterStart(employeeID uint, req *request.StartPasskeyRegistrationRequest) (*response.StartRegistrationResponse, error) {
	traceID := util.NewTraceID()
	ps.logger.Info("passkey registration start",
		zap.Uint("employee_id", employeeID),
		zap.String("trace_id", traceID))

	employee, err := ps.employeeRepo.GetByIDWithPasskeys(ps.db, employeeID)
	if err != nil {
		return nil, errs.NotFound("employee not found", traceID, err)
	}
	if req != nil && req.DisplayName != "" {
		employee.DisplayName = req.DisplayName
	}

	opts := []webauthn.RegistrationOption{
		webauthn.WithAuthenticatorSelection(protocol.AuthenticatorSelection{
			AuthenticatorAttachment: protocol.Platform,
			ResidentKey:             protocol.ResidentKeyRequirementPreferred,
			UserVerification:        protocol.VerificationPreferred,
		}),
		webauthn.WithConveyancePreference(protocol.PreferNoAttestation),
	}
	if exclusions := excludeDescriptors(employee.Passkeys); len(exclusions) > 0 {
		opts = append(opts, webauthn.WithExclusions(exclusions))
	}

	options, session, err := ps.provider.BeginRegistration(*employee, opts...)
	if err != nil {
		ps.logger.Error("begin registration failed",
			zap.Uint("employee_id", employeeID),
			zap.String("trace_id", traceID),
			zap.Error(err))
		return nil, errs.InvalidRequest("could not start passkey registration", traceID, err)
	}

	issueTrace, err := ps.challenges.Issue(employeeID, ChallengePurposeRegistration, session.Challenge)
	if err != nil {
		return nil, errs.InvalidRequest("could not start passkey registration", traceID, err)
	}
	ps.logger.Info("registration challenge issued",
		zap.Uint("employee_id", employeeID),
		zap.String("trace_id", issueTrace))

	return &response.StartRegistrationResponse{Options: options, TraceID: issueTrace}, nil
}

// RegisterFinish completes a registration ceremony. The challenge consume
// is the replay guard, the attachment gate runs before any cryptographic
// work, and the credential id is persisted exactly as the client sent it.
func (ps *PasskeyService) RegisterFinish(employeeID uint, label string, r *http.Request) (*response.FinishRegistrationResponse, error) {
	traceID := util.NewTraceID()
	ps.logger.Info("passkey registration finish",
		zap.Uint("employee_id", employeeID),
		zap.String("trace_id", traceID))

	record, err := ps.challenges.Consume(employeeID, ChallengePurposeRegistration)
	if err != nil {
		ps.logger.Warn("registration challenge miss",
			zap.Uint("employee_id", employeeID),
			zap.String("trace_id", traceID))
		return nil, errs.InvalidRequest("no valid registration challenge, please restart the process", traceID, err)
	}
	ps.logger.Info("registration challenge consumed",
		zap.Uint("employee_id", employeeID),
		zap.String("trace_id", traceID),
		zap.String("issued_trace_id", record.TraceID))

	parsed, err := ps.parser.ParseRegistrationResponse(r)
	if err != nil {
		return nil, errs.InvalidRequest("invalid registration response", traceID, err)
	}

	// Platform-only policy. Rejecting before verification avoids wasting a
	// cycle on a response that would be discarded anyway and lets the user
	// get an actionable message instead of a generic failure.
	if parsed.AuthenticatorAttachment == protocol.CrossPlatform {
		ps.logger.Warn("cross-platform authenticator rejected",
			zap.Uint("employee_id", employeeID),
			zap.String("trace_id", traceID))
		return nil, errs.InvalidRequest("security keys are not supported, use your device's built-in authenticator", traceID, nil)
	}

	employee, err := ps.employeeRepo.GetByID(ps.db, employeeID)
	if err != nil {
		return nil, errs.NotFound("employee not found", traceID, err)
	}

	session := webauthn.SessionData{
		Challenge:        record.Nonce,
		UserID:           employee.WebAuthnID(),
		UserVerification: protocol.VerificationPreferred,
	}
	credential, err := ps.provider.CreateCredential(*employee, session, parsed)
	if err != nil {
		ps.logger.Warn("registration verification failed",
			zap.Uint("employee_id", employeeID),
			zap.String("trace_id", traceID),
			zap.Error(err))
		return nil, errs.InvalidRequest("registration failed", traceID, err)
	}
	ps.logger.Info("registration verified",
		zap.Uint("employee_id", employeeID),
		zap.String("trace_id", traceID),
		zap.Bool("backup_eligible", credential.Flags.BackupEligible))

	transports := make([]string, 0, len(credential.Transport))
	for _, t := range credential.Transport {
		transports = append(transports, string(t))
	}
	if len(transports) == 0 {
		transports = []string{string(protocol.Internal)}
	}
	if label == "" {
		label = fallbackPasskeyLabel
	}

	passkey := &domain.Passkey{
		EmployeeID: employeeID,
		// parsed.ID is the id field of the client response, byte for byte.
		// Authenticators echo this exact value on every later assertion,
		// so no re-encoding of the verifier's internal form is allowed.
		CredentialID: parsed.ID,
		PublicKey:    base64.StdEncoding.EncodeToString(credential.PublicKey),
		SignCount:    credential.Authenticator.SignCount,
		Transports:   domain.JoinTransports(transports),
		Label:        label,
		Kind:         domain.AuthenticatorKindPlatform,
		Active:       true,
	}
	if err := ps.passkeyRepo.Create(ps.db, passkey); err != nil {
		ps.logger.Error("failed to store passkey",
			zap.Uint("employee_id", employeeID),
			zap.String("trace_id", traceID),
			zap.Error(err))
		return nil, errs.InvalidRequest("registration failed", traceID, err)
	}

	ps.audit.PublishPasskeyRegistered(&request.PasskeyRegisteredEvent{
		EmployeeID: employeeID,
		PasskeyID:  passkey.ID,
		Label:      passkey.Label,
		TraceID:    traceID,
	})

	summary := toSummary(passkey)
	return &response.FinishRegistrationResponse{Verified: true, Passkey: &summary, TraceID: traceID}, nil
}

// LoginStart begins the MFA assertion ceremony for the pre-authentication
// login step. Unknown emails and accounts without active passkeys produce
// the identical response so callers cannot enumerate accounts.
func (ps *PasskeyService) LoginStart(email string) (*response.StartLoginResponse, error) {
	employee, err := ps.employeeRepo.GetByEmail(ps.db, email)
	if err != nil {
		ps.logger.Info("passkey login start for unknown email")
		return &response.StartLoginResponse{MfaRequired: false}, nil
	}

	count, err := ps.passkeyRepo.CountActiveByEmployee(ps.db, employee.Id)
	if err != nil {
		return nil, errs.InvalidRequest("could not start sign-in", "", err)
	}
	if count == 0 {
		ps.logger.Info("passkey login start without registered passkeys",
			zap.Uint("employee_id", employee.Id))
		return &response.StartLoginResponse{MfaRequired: false}, nil
	}

	// Empty allow list: resident keys let the platform discover the
	// credential, the server does not reveal which ids exist.
	options, session, err := ps.provider.BeginDiscoverableLogin(
		webauthn.WithUserVerification(protocol.VerificationRequired),
	)
	if err != nil {
		ps.logger.Error("begin login failed",
			zap.Uint("employee_id", employee.Id),
			zap.Error(err))
		return nil, errs.InvalidRequest("could not start sign-in", "", err)
	}

	traceID, err := ps.challenges.Issue(employee.Id, ChallengePurposeAuthentication, session.Challenge)
	if err != nil {
		return nil, errs.InvalidRequest("could not start sign-in", "", err)
	}
	ps.logger.Info("authentication challenge issued",
		zap.Uint("employee_id", employee.Id),
		zap.String("trace_id", traceID))

	return &response.StartLoginResponse{MfaRequired: true, Options: options, TraceID: traceID}, nil
}

// LoginFinish verifies the assertion and persists the authenticator's new
// signature counter. The counter write-back is the cloned-device defense:
// a replayed assertion carries a stale counter the verifier rejects.
func (ps *PasskeyService) LoginFinish(email string, r *http.Request) (*response.FinishLoginResponse, error) {
	traceID := util.NewTraceID()
	ps.logger.Info("passkey login finish", zap.String("trace_id", traceID))

	employee, err := ps.employeeRepo.GetByEmail(ps.db, email)
	if err != nil {
		ps.logger.Warn("passkey login finish for unknown email",
			zap.String("trace_id", traceID))
		return nil, errs.Unauthorized("authentication failed", traceID, err)
	}

	record, err := ps.challenges.Consume(employee.Id, ChallengePurposeAuthentication)
	if err != nil {
		ps.logger.Warn("authentication challenge miss",
			zap.Uint("employee_id", employee.Id),
			zap.String("trace_id", traceID))
		return nil, errs.InvalidRequest("no valid authentication challenge, please restart the process", traceID, err)
	}
	ps.logger.Info("authentication challenge consumed",
		zap.Uint("employee_id", employee.Id),
		zap.String("trace_id", traceID),
		zap.String("issued_trace_id", record.TraceID))

	parsed, err := ps.parser.ParseLoginResponse(r)
	if err != nil {
		return nil, errs.InvalidRequest("invalid authentication response", traceID, err)
	}

	passkey, err := ps.passkeyRepo.GetActiveByCredentialID(ps.db, employee.Id, parsed.ID)
	if err != nil {
		ps.logger.Warn("assertion for unknown or disabled passkey",
			zap.Uint("employee_id", employee.Id),
			zap.String("trace_id", traceID))
		return nil, errs.NotFound("passkey not found or disabled", traceID, err)
	}

	// Restrict verification to the presented credential.
	verifyUser := *employee
	verifyUser.Passkeys = []domain.Passkey{*passkey}

	session := webauthn.SessionData{
		Challenge:        record.Nonce,
		UserID:           employee.WebAuthnID(),
		UserVerification: protocol.VerificationRequired,
	}
	credential, err := ps.provider.ValidateLogin(verifyUser, session, parsed)
	if err != nil {
		ps.logger.Warn("authentication verification failed",
			zap.Uint("employee_id", employee.Id),
			zap.String("trace_id", traceID),
			zap.Error(err))
		return nil, errs.Unauthorized("authentication failed", traceID, err)
	}
	if credential.Authenticator.CloneWarning {
		ps.logger.Warn("authenticator clone warning",
			zap.Uint("employee_id", employee.Id),
			zap.Uint("passkey_id", passkey.ID),
			zap.String("trace_id", traceID))
	}

	now := time.Now()
	if err := ps.passkeyRepo.UpdateAfterLogin(ps.db, passkey.ID, credential.Authenticator.SignCount, now); err != nil {
		ps.logger.Error("failed to persist signature counter",
			zap.Uint("employee_id", employee.Id),
			zap.String("trace_id", traceID),
			zap.Error(err))
		return nil, errs.Unauthorized("authentication failed", traceID, err)
	}
	ps.logger.Info("authentication verified",
		zap.Uint("employee_id", employee.Id),
		zap.Uint("passkey_id", passkey.ID),
		zap.String("trace_id", traceID),
		zap.Uint32("sign_count", credential.Authenticator.SignCount))

	ps.audit.PublishPasskeyAuthenticated(&request.PasskeyAuthenticatedEvent{
		EmployeeID: employee.Id,
		PasskeyID:  passkey.ID,
		TraceID:    traceID,
	})

	return &response.FinishLoginResponse{Verified: true, TraceID: traceID}, nil
}

// List returns every passkey of the employee, active or not, newest first.
func (ps *PasskeyService) List(employeeID uint) ([]response.PasskeySummary, error) {
	passkeys, err := ps.passkeyRepo.ListByEmployee(ps.db, employeeID)
	if err != nil {
		return nil, errs.InvalidRequest("could not list passkeys", "", err)
	}
	summaries := make([]response.PasskeySummary, 0, len(passkeys))
	for i := range passkeys {
		summaries = append(summaries, toSummary(&passkeys[i]))
	}
	return summaries, nil
}

func (ps *PasskeyService) Status(employeeID uint) (*response.MfaStatusResponse, error) {
	count, err := ps.passkeyRepo.CountActiveByEmployee(ps.db, employeeID)
	if err != nil {
		return nil, errs.InvalidRequest("could not read passkey status", "", err)
	}
	return &response.MfaStatusResponse{Enabled: count > 0, ActiveCount: count}, nil
}

func (ps *PasskeyService) Rename(employeeID uint, passkeyID uint, label string) (*response.PasskeySummary, error) {
	traceID := util.NewTraceID()
	if err := ps.passkeyRepo.Rename(ps.db, employeeID, passkeyID, label); err != nil {
		return nil, errs.NotFound("passkey not found", traceID, err)
	}
	passkey, err := ps.passkeyRepo.GetByID(ps.db, employeeID, passkeyID)
	if err != nil {
		return nil, errs.NotFound("passkey not found", traceID, err)
	}
	summary := toSummary(passkey)
	return &summary, nil
}

func (ps *PasskeyService) Deactivate(employeeID uint, passkeyID uint) error {
	traceID := util.NewTraceID()
	if err := ps.passkeyRepo.Deactivate(ps.db, employeeID, passkeyID); err != nil {
		return errs.NotFound("passkey not found", traceID, err)
	}
	ps.logger.Info("passkey deactivated",
		zap.Uint("employee_id", employeeID),
		zap.Uint("passkey_id", passkeyID),
		zap.String("trace_id", traceID))
	ps.audit.PublishPasskeyRevoked(&request.PasskeyRevokedEvent{
		EmployeeID: employeeID,
		PasskeyID:  passkeyID,
		Hard:       false,
		TraceID:    traceID,
	})
	return nil
}

func (ps *PasskeyService) Delete(employeeID uint, passkeyID uint) error {
	traceID := util.NewTraceID()
	if err := ps.passkeyRepo.Delete(ps.db, employeeID, passkeyID); err != nil {
		return errs.NotFound("passkey not found", traceID, err)
	}
	ps.logger.Info("passkey deleted",
		zap.Uint("employee_id", employeeID),
		zap.Uint("passkey_id", passkeyID),
		zap.String("trace_id", traceID))
	ps.audit.PublishPasskeyRevoked(&request.PasskeyRevokedEvent{
		EmployeeID: employeeID,
		PasskeyID:  passkeyID,
		Hard:       true,
		TraceID:    traceID,
	})
	return nil
}

func toSummary(p *domain.Passkey) response.PasskeySummary {
	return response.PasskeySummary{
		ID:         p.ID,
		Label:      p.Label,
		Kind:       p.Kind,
		CreatedAt:  p.CreatedAt,
		LastUsedAt: p.LastUsedAt,
		Active:     p.Active,
	}
}

// excludeDescriptors projects active passkeys into the exclusion list so
// an authenticator refuses to re-register a credential it already holds.
func excludeDescriptors(passkeys []domain.Passkey) []protocol.CredentialDescriptor {
	var descriptors []protocol.CredentialDescriptor
	for i := range passkeys {
		p := &passkeys[i]
		if !p.Active {
			continue
		}
		id, err := base64.RawURLEncoding.DecodeString(p.CredentialID)
		if err != nil {
			continue
		}
		var transports []protocol.AuthenticatorTransport
		for _, t := range p.TransportList() {
			transports = append(transports, protocol.AuthenticatorTransport(t))
		}
		descriptors = append(descriptors, protocol.CredentialDescriptor{
			Type:         protocol.PublicKeyCredentialType,
			CredentialID: protocol.URLEncodedBase64(id),
			Transport:    transports,
		})
	}
	return descriptors
}
