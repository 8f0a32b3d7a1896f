package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grupoterra/cotizador-api/internal/config"
	"github.com/grupoterra/cotizador-api/internal/jobs"
	"github.com/grupoterra/cotizador-api/internal/models"
	"github.com/grupoterra/cotizador-api/internal/quotation"
	"github.com/grupoterra/cotizador-api/internal/repository"
	"github.com/grupoterra/cotizador-api/pkg/logger"
)

// DraftService orchestrates the in-memory quotation editing sessions: the
// selection chain, live pricing, the discount authorization workflow and the
// guarded submit into the persisted store.
type DraftService struct {
	mu       sync.RWMutex
	sessions map[string]*quotation.Session

	repos           *repository.Repositories
	quotationSvc    *QuotationService
	leadSvc         *LeadService
	emailSvc        *EmailService
	notificationSvc *NotificationService
	rateSvc         *ExchangeRateService
	worker          *jobs.Worker
	cfg             *config.Config
}

// NewDraftService creates the session orchestrator
func NewDraftService(
	repos *repository.Repositories,
	quotationSvc *QuotationService,
	leadSvc *LeadService,
	emailSvc *EmailService,
	notificationSvc *NotificationService,
	rateSvc *ExchangeRateService,
	worker *jobs.Worker,
	cfg *config.Config,
) *DraftService {
	return &DraftService{
		sessions:        make(map[string]*quotation.Session),
		repos:           repos,
		quotationSvc:    quotationSvc,
		leadSvc:         leadSvc,
		emailSvc:        emailSvc,
		notificationSvc: notificationSvc,
		rateSvc:         rateSvc,
		worker:          worker,
		cfg:             cfg,
	}
}

// StartSession opens a fresh editing session for an advisor. Sales advisors
// carry the discount cap; other roles edit uncapped.
func (s *DraftService) StartSession(ctx context.Context, advisorID uint) (*quotation.Session, error) {
	user, err := s.repos.User.FindByID(ctx, advisorID)
	if err != nil {
		return nil, ErrUnauthorized
	}

	session := quotation.NewSession(uuid.New().String(), advisorID, user.IsSalesAdvisor())

	// Seed the exchange rate so the draft opens ready to price. A provider
	// outage is not fatal: the advisor can refresh or type the rate later.
	if rate, err := s.rateSvc.CurrentRate(ctx); err == nil {
		session.SetExchangeRate(rate.Value, rate.Source)
	}
	session.SetQuotationDate(time.Now().Format("2006-01-02"))

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	logger.Info("quotation session started", "token", session.Token, "advisor_id", advisorID)
	return session, nil
}

// StartSessionFromQuotation opens an editing session over an existing
// quotation (update flow).
func (s *DraftService) StartSessionFromQuotation(ctx context.Context, advisorID uint, quotationID uint) (*quotation.Session, error) {
	user, err := s.repos.User.FindByID(ctx, advisorID)
	if err != nil {
		return nil, ErrUnauthorized
	}

	q, err := s.repos.Quotation.FindByID(ctx, quotationID)
	if err != nil {
		return nil, ErrNotFound
	}

	capPct := 0.0
	if project, err := s.repos.Project.FindByID(ctx, q.ProjectID); err == nil {
		capPct = project.DiscountCap()
	}

	session := quotation.NewSession(uuid.New().String(), advisorID, user.IsSalesAdvisor())
	session.Hydrate(q, capPct)

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	logger.Info("quotation session hydrated", "token", session.Token, "quotation_id", quotationID)
	return session, nil
}

// Get returns a live session by token.
func (s *DraftService) Get(token string) (*quotation.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok || session.Ended() {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// SetLead assigns the client lead after verifying it exists.
func (s *DraftService) SetLead(ctx context.Context, token string, leadID uint) (*quotation.Session, error) {
	session, err := s.Get(token)
	if err != nil {
		return nil, err
	}
	if _, err := s.repos.Lead.FindByID(ctx, leadID); err != nil {
		return nil, ErrNotFound
	}
	if err := session.SetLead(leadID); err != nil {
		return nil, err
	}
	return session, nil
}

// SetProject selects an active project, triggering the downstream reset.
func (s *DraftService) SetProject(ctx context.Context, token string, projectID uint) (*quotation.Session, error) {
	session, err := s.Get(token)
	if err != nil {
		return nil, err
	}
	project, err := s.repos.Project.FindByID(ctx, projectID)
	if err != nil {
		return nil, ErrNotFound
	}
	if !project.Active {
		return nil, ErrProjectInactive
	}
	if err := session.SetProject(project); err != nil {
		return nil, err
	}
	return session, nil
}

// SetBlock selects a block belonging to the session's project.
func (s *DraftService) SetBlock(ctx context.Context, token string, blockID uint) (*quotation.Session, error) {
	session, err := s.Get(token)
	if err != nil {
		return nil, err
	}
	block, err := s.repos.Block.FindByID(ctx, blockID)
	if err != nil {
		return nil, ErrNotFound
	}
	if block.ProjectID != session.View().Chain.ProjectID {
		return nil, quotation.ErrBlockMismatch
	}
	if err := session.SetBlock(block.ID); err != nil {
		return nil, err
	}
	return session, nil
}

// SetLot selects an available lot, sourcing the area and unit price.
func (s *DraftService) SetLot(ctx context.Context, token string, lotID uint) (*quotation.Session, error) {
	session, err := s.Get(token)
	if err != nil {
		return nil, err
	}
	lot, err := s.repos.Lot.FindByID(ctx, lotID)
	if err != nil {
		return nil, ErrNotFound
	}
	if !lot.IsAvailable() {
		return nil, ErrLotNotAvailable
	}
	if err := session.SetLot(lot); err != nil {
		return nil, err
	}
	return session, nil
}

// RefreshExchangeRate re-reads the provider rate into the session.
func (s *DraftService) RefreshExchangeRate(ctx context.Context, token string) (*quotation.Session, error) {
	session, err := s.Get(token)
	if err != nil {
		return nil, err
	}
	rate, err := s.rateSvc.CurrentRate(ctx)
	if err != nil {
		return nil, err
	}
	if err := session.SetExchangeRate(rate.Value, rate.Source); err != nil {
		return nil, err
	}
	return session, nil
}

// SelectSupervisor picks the supervisor that will authorize an above-cap
// discount. Only active supervisors qualify.
func (s *DraftService) SelectSupervisor(ctx context.Context, token string, supervisorID uint) (*quotation.Session, error) {
	session, err := s.Get(token)
	if err != nil {
		return nil, err
	}
	supervisor, err := s.repos.User.FindByID(ctx, supervisorID)
	if err != nil || !supervisor.IsSupervisor() || !supervisor.IsActive() {
		return nil, ErrSupervisorInvalid
	}
	if err := session.Auth().SelectSupervisor(ctx, supervisorID); err != nil {
		return nil, err
	}
	return session, nil
}

// SendOtp generates a passcode, starts the countdown and mails the code to
// the selected supervisor in the background. Resends travel the same path:
// the state machine decides whether this is a first send or a resend.
func (s *DraftService) SendOtp(ctx context.Context, token string) (*quotation.Session, error) {
	session, err := s.Get(token)
	if err != nil {
		return nil, err
	}

	supervisorID := session.Auth().SupervisorID()
	if supervisorID == 0 {
		return nil, ErrSupervisorInvalid
	}
	supervisor, err := s.repos.User.FindByID(ctx, supervisorID)
	if err != nil {
		return nil, ErrSupervisorInvalid
	}

	code, err := GenerateOtpCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate otp code: %w", err)
	}

	ttl := time.Duration(s.cfg.OtpTTLMinutes) * time.Minute
	expiresAt := time.Now().Add(ttl)

	generation := session.Generation()
	onExpire := func() {
		// The countdown may outlive the session; a dead session is not
		// touched and gets no log noise.
		if session.Ended() || session.Generation() != generation {
			return
		}
		logger.Info("discount otp expired", "token", session.Token)
	}

	if err := session.Auth().MarkSent(ctx, code, expiresAt, onExpire); err != nil {
		return nil, err
	}

	advisorName := ""
	if advisor, err := s.repos.User.FindByID(ctx, session.AdvisorID); err == nil {
		advisorName = advisor.FullName
	}
	view := session.View()
	projectName := ""
	if project, err := s.repos.Project.FindByID(ctx, view.Chain.ProjectID); err == nil {
		projectName = project.Name
	}
	discount := view.Inputs.Discount

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		if session.Ended() || session.Generation() != generation {
			return nil
		}
		return s.emailSvc.SendOtpCode(ctx, supervisor, advisorName, projectName, discount, code, s.cfg.OtpTTLMinutes)
	})

	s.notificationSvc.NotifyUser(ctx, supervisorID,
		"Autorización de descuento",
		fmt.Sprintf("El asesor %s solicita autorizar un descuento de L%.2f", advisorName, discount),
		models.NotificationTypeOtpRequested,
	)

	return session, nil
}

// ValidateOtp checks the supervisor passcode; a correct code before the
// deadline approves the discount and lifts the cap for this session.
func (s *DraftService) ValidateOtp(ctx context.Context, token, code string) (*quotation.Session, error) {
	session, err := s.Get(token)
	if err != nil {
		return nil, err
	}
	if err := session.Auth().Validate(ctx, code); err != nil {
		return nil, err
	}

	s.notificationSvc.NotifyUser(ctx, session.AdvisorID,
		"Descuento autorizado",
		"El supervisor ha autorizado el descuento de la cotización en curso",
		models.NotificationTypeDiscountApproved,
	)
	return session, nil
}

// Submit persists the draft as a quotation. The submit is guarded: a second
// submit while one is in flight is rejected, and a successful submit ends
// the session so it cannot double-create.
func (s *DraftService) Submit(ctx context.Context, token string) (*models.Quotation, error) {
	session, err := s.Get(token)
	if err != nil {
		return nil, err
	}

	if missing := session.MissingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrIncompleteDraft, missing)
	}

	if err := session.BeginSubmit(); err != nil {
		return nil, err
	}

	draft := session.Draft()
	q := draft.BuildQuotation(session.AdvisorID)

	if q.ID != 0 {
		err = s.quotationSvc.Update(ctx, q)
	} else {
		err = s.quotationSvc.Create(ctx, q)
	}
	if err != nil {
		session.FinishSubmit(false)
		return nil, err
	}

	session.FinishSubmit(true)

	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()

	s.leadSvc.MarkQuoted(ctx, q.LeadID)

	quotationID := q.ID
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		full, err := s.repos.Quotation.FindByID(ctx, quotationID)
		if err != nil {
			return err
		}
		return s.emailSvc.SendQuotationSubmitted(ctx, full)
	})

	s.notificationSvc.NotifyUser(ctx, session.AdvisorID,
		"Cotización enviada",
		fmt.Sprintf("La cotización #%d fue registrada correctamente", q.ID),
		models.NotificationTypeQuotationSubmitted,
	)

	logger.Info("quotation submitted", "token", token, "quotation_id", q.ID)
	return q, nil
}

// Discard drops a session without persisting anything.
func (s *DraftService) Discard(token string) error {
	s.mu.Lock()
	session, ok := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	session.End()
	logger.Info("quotation session discarded", "token", token)
	return nil
}

// SweepStale ends and removes sessions idle beyond the configured TTL.
// Scheduled on the background worker.
func (s *DraftService) SweepStale(ctx context.Context) error {
	ttl := time.Duration(s.cfg.SessionTTLMinutes) * time.Minute
	cutoff := time.Now().Add(-ttl)

	s.mu.Lock()
	var stale []*quotation.Session
	for token, session := range s.sessions {
		if session.LastTouch().Before(cutoff) {
			stale = append(stale, session)
			delete(s.sessions, token)
		}
	}
	s.mu.Unlock()

	for _, session := range stale {
		session.End()
	}
	if len(stale) > 0 {
		logger.Info("stale quotation sessions swept", "count", len(stale))
	}
	return nil
}

// ActiveSessions returns the number of live sessions; exposed for health.
func (s *DraftService) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
