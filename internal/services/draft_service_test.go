package services

import (
	"context"
	"testing"

	"github.com/grupoterra/cotizador-api/internal/config"
	"github.com/grupoterra/cotizador-api/internal/jobs"
	"github.com/grupoterra/cotizador-api/internal/models"
	"github.com/grupoterra/cotizador-api/internal/quotation"
	"github.com/grupoterra/cotizador-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type mockUserRepo struct {
	repository.UserRepository
	users map[uint]*models.User
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockLeadRepo struct {
	repository.LeadRepository
	leads    map[uint]*models.Lead
	statuses map[uint]string
}

func (m *mockLeadRepo) FindByID(ctx context.Context, id uint) (*models.Lead, error) {
	if l, ok := m.leads[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeadRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	if m.statuses == nil {
		m.statuses = make(map[uint]string)
	}
	m.statuses[id] = status
	return nil
}

type mockProjectRepo struct {
	repository.ProjectRepository
	projects map[uint]*models.Project
}

func (m *mockProjectRepo) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	if p, ok := m.projects[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockBlockRepo struct {
	repository.BlockRepository
	blocks map[uint]*models.Block
}

func (m *mockBlockRepo) FindByID(ctx context.Context, id uint) (*models.Block, error) {
	if b, ok := m.blocks[id]; ok {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockLotRepo struct {
	repository.LotRepository
	lots map[uint]*models.Lot
}

func (m *mockLotRepo) FindByID(ctx context.Context, id uint) (*models.Lot, error) {
	if l, ok := m.lots[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockQuotationRepo struct {
	repository.QuotationRepository
	created []*models.Quotation
	updated []*models.Quotation
}

func (m *mockQuotationRepo) Create(ctx context.Context, q *models.Quotation) error {
	q.ID = uint(101 + len(m.created))
	m.created = append(m.created, q)
	return nil
}

func (m *mockQuotationRepo) Update(ctx context.Context, q *models.Quotation) error {
	m.updated = append(m.updated, q)
	return nil
}

func (m *mockQuotationRepo) FindByID(ctx context.Context, id uint) (*models.Quotation, error) {
	for _, q := range m.created {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type mockNotificationRepo struct {
	repository.NotificationRepository
	created []*models.Notification
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	m.created = append(m.created, n)
	return nil
}

type draftFixture struct {
	svc           *DraftService
	worker        *jobs.Worker
	userRepo      *mockUserRepo
	leadRepo      *mockLeadRepo
	quotationRepo *mockQuotationRepo
	notifRepo     *mockNotificationRepo
}

func newDraftFixture(t *testing.T) *draftFixture {
	t.Helper()

	advisor := &models.User{ID: 1, FullName: "Ana Asesora", Role: models.RoleSalesAdvisor, Status: models.StatusActive}
	supervisor := &models.User{ID: 4, FullName: "Sofía Supervisora", Role: models.RoleSupervisor, Status: models.StatusActive}

	userRepo := &mockUserRepo{users: map[uint]*models.User{1: advisor, 4: supervisor}}
	leadRepo := &mockLeadRepo{leads: map[uint]*models.Lead{
		3: {ID: 3, FullName: "Carlos Cliente", Status: models.LeadStatusNew},
	}}
	projectRepo := &mockProjectRepo{projects: map[uint]*models.Project{
		10: {ID: 10, Name: "Altos del Valle", Active: true, PricePerSquareUnit: 700, DefaultDownPaymentPct: 20, DefaultFinancingMonths: 36},
		11: {ID: 11, Name: "Proyecto Cerrado", Active: false},
	}}
	blockRepo := &mockBlockRepo{blocks: map[uint]*models.Block{
		5: {ID: 5, ProjectID: 10, Name: "Manzana A", Active: true},
	}}
	lotRepo := &mockLotRepo{lots: map[uint]*models.Lot{
		77: {ID: 77, BlockID: 5, Name: "Lote 001", Status: models.LotStatusAvailable, Length: 20, Width: 6, UnitPrice: 700},
		78: {ID: 78, BlockID: 5, Name: "Lote 002", Status: models.LotStatusReserved, Length: 10, Width: 10, UnitPrice: 700},
	}}
	quotationRepo := &mockQuotationRepo{}
	notifRepo := &mockNotificationRepo{}

	repos := &repository.Repositories{
		User:         userRepo,
		Lead:         leadRepo,
		Project:      projectRepo,
		Block:        blockRepo,
		Lot:          lotRepo,
		Quotation:    quotationRepo,
		Notification: notifRepo,
	}

	cfg := &config.Config{
		OtpTTLMinutes:     5,
		SessionTTLMinutes: 120,
		FromEmail:         "noreply@test",
	}

	worker := jobs.NewWorker(1)
	t.Cleanup(worker.Shutdown)

	rateSvc := NewExchangeRateService(&stubRateProvider{rate: &Rate{Value: 24.75, Source: "BCH"}})
	notificationSvc := NewNotificationService(notifRepo, userRepo)
	quotationSvc := NewQuotationService(quotationRepo)
	leadSvc := NewLeadService(leadRepo)
	emailSvc := NewEmailService(cfg)

	svc := NewDraftService(repos, quotationSvc, leadSvc, emailSvc, notificationSvc, rateSvc, worker, cfg)

	return &draftFixture{
		svc:           svc,
		worker:        worker,
		userRepo:      userRepo,
		leadRepo:      leadRepo,
		quotationRepo: quotationRepo,
		notifRepo:     notifRepo,
	}
}

func TestDraftService_StartSessionSeedsRateAndDate(t *testing.T) {
	f := newDraftFixture(t)

	session, err := f.svc.StartSession(context.Background(), 1)
	assert.NoError(t, err)

	v := session.View()
	assert.Equal(t, 24.75, v.ExchangeRate)
	assert.Equal(t, "BCH", v.RateSource)
	assert.NotEmpty(t, v.QuotationDate)
	assert.True(t, v.Capped, "sales advisors carry the discount cap")
}

func TestDraftService_StartSessionUnknownAdvisor(t *testing.T) {
	f := newDraftFixture(t)
	_, err := f.svc.StartSession(context.Background(), 999)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestDraftService_FullFlowSubmit(t *testing.T) {
	ctx := context.Background()
	f := newDraftFixture(t)

	session, err := f.svc.StartSession(ctx, 1)
	assert.NoError(t, err)
	token := session.Token

	_, err = f.svc.SetLead(ctx, token, 3)
	assert.NoError(t, err)
	_, err = f.svc.SetProject(ctx, token, 10)
	assert.NoError(t, err)
	_, err = f.svc.SetBlock(ctx, token, 5)
	assert.NoError(t, err)
	_, err = f.svc.SetLot(ctx, token, 77)
	assert.NoError(t, err)

	q, err := f.svc.Submit(ctx, token)
	assert.NoError(t, err)
	assert.NotZero(t, q.ID)
	assert.Equal(t, 84000.0, q.TotalPrice)
	assert.Equal(t, uint(1), *q.AdvisorID)

	// the session is gone after a successful submit
	_, err = f.svc.Get(token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// the lead moved to quoted
	assert.Equal(t, models.LeadStatusQuoted, f.leadRepo.statuses[3])
}

func TestDraftService_SubmitRejectsIncompleteDraft(t *testing.T) {
	ctx := context.Background()
	f := newDraftFixture(t)

	session, err := f.svc.StartSession(ctx, 1)
	assert.NoError(t, err)

	_, err = f.svc.Submit(ctx, session.Token)
	assert.ErrorIs(t, err, ErrIncompleteDraft)
	assert.Empty(t, f.quotationRepo.created, "nothing may be persisted")
}

func TestDraftService_SubmitGuardAgainstDoubleClick(t *testing.T) {
	ctx := context.Background()
	f := newDraftFixture(t)

	session, err := f.svc.StartSession(ctx, 1)
	assert.NoError(t, err)
	token := session.Token

	_, err = f.svc.SetLead(ctx, token, 3)
	assert.NoError(t, err)
	_, err = f.svc.SetProject(ctx, token, 10)
	assert.NoError(t, err)
	_, err = f.svc.SetBlock(ctx, token, 5)
	assert.NoError(t, err)
	_, err = f.svc.SetLot(ctx, token, 77)
	assert.NoError(t, err)

	// simulate a submit already in flight
	assert.NoError(t, session.BeginSubmit())

	_, err = f.svc.Submit(ctx, token)
	assert.ErrorIs(t, err, quotation.ErrSubmitInFlight)
	assert.Empty(t, f.quotationRepo.created, "the second submit must not reach the store")
}

func TestDraftService_SetProjectRejectsInactive(t *testing.T) {
	ctx := context.Background()
	f := newDraftFixture(t)

	session, _ := f.svc.StartSession(ctx, 1)
	_, err := f.svc.SetProject(ctx, session.Token, 11)
	assert.ErrorIs(t, err, ErrProjectInactive)
}

func TestDraftService_SetLotRejectsUnavailable(t *testing.T) {
	ctx := context.Background()
	f := newDraftFixture(t)

	session, _ := f.svc.StartSession(ctx, 1)
	_, err := f.svc.SetProject(ctx, session.Token, 10)
	assert.NoError(t, err)
	_, err = f.svc.SetBlock(ctx, session.Token, 5)
	assert.NoError(t, err)

	_, err = f.svc.SetLot(ctx, session.Token, 78)
	assert.ErrorIs(t, err, ErrLotNotAvailable)
}

func TestDraftService_SelectSupervisorValidatesRole(t *testing.T) {
	ctx := context.Background()
	f := newDraftFixture(t)

	session, _ := f.svc.StartSession(ctx, 1)

	// advisor id 1 is not a supervisor
	_, err := f.svc.SelectSupervisor(ctx, session.Token, 1)
	assert.ErrorIs(t, err, ErrSupervisorInvalid)

	_, err = f.svc.SelectSupervisor(ctx, session.Token, 4)
	assert.NoError(t, err)
	assert.Equal(t, uint(4), session.Auth().SupervisorID())
}

func TestDraftService_ValidateOtpApprovesAndNotifies(t *testing.T) {
	ctx := context.Background()
	f := newDraftFixture(t)

	session, _ := f.svc.StartSession(ctx, 1)
	token := session.Token

	_, err := f.svc.SetProject(ctx, token, 10)
	assert.NoError(t, err)
	_, err = f.svc.SelectSupervisor(ctx, token, 4)
	assert.NoError(t, err)
	_, err = f.svc.SendOtp(ctx, token)
	assert.NoError(t, err)
	defer session.Auth().StopCountdown()

	// the supervisor was notified of the request
	assert.NotEmpty(t, f.notifRepo.created)
	assert.Equal(t, uint(4), f.notifRepo.created[0].UserID)

	// wrong code leaves the workflow pending
	_, err = f.svc.ValidateOtp(ctx, token, "000000")
	assert.Error(t, err)
	assert.False(t, session.Auth().Approved())
}

func TestDraftService_Discard(t *testing.T) {
	ctx := context.Background()
	f := newDraftFixture(t)

	session, _ := f.svc.StartSession(ctx, 1)
	assert.NoError(t, f.svc.Discard(session.Token))
	assert.True(t, session.Ended())

	_, err := f.svc.Get(session.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, f.svc.Discard("no-such-token"), ErrSessionNotFound)
}

func TestDraftService_SweepStale(t *testing.T) {
	ctx := context.Background()
	f := newDraftFixture(t)
	f.svc.cfg.SessionTTLMinutes = 0 // everything is immediately stale

	session, _ := f.svc.StartSession(ctx, 1)
	assert.Equal(t, 1, f.svc.ActiveSessions())

	assert.NoError(t, f.svc.SweepStale(ctx))
	assert.Equal(t, 0, f.svc.ActiveSessions())
	assert.True(t, session.Ended())
}
