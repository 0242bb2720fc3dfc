package service_test

import (
	"context"
	"fmt"

	"github.com/volunthub/volunthub-api/internal/domain"
	"github.com/volunthub/volunthub-api/internal/repository"
)

// fakeLedgerRepo is an in-memory stand-in for the reward store. It keeps
// the same idempotency contract: one grant per (user, action, reference).
type fakeLedgerRepo struct {
	grants   map[string]bool
	points   map[uint]int
	coins    map[uint]int
	held     map[uint]map[string]bool
	orders   []repository.CreditOrder
	missing  map[uint]bool
	grantLog []domain.RewardGrant
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{
		grants:  make(map[string]bool),
		points:  make(map[uint]int),
		coins:   make(map[uint]int),
		held:    make(map[uint]map[string]bool),
		missing: make(map[uint]bool),
	}
}

func grantKey(userID uint, action, reference string) string {
	return fmt.Sprintf("%d|%s|%s", userID, action, reference)
}

func (f *fakeLedgerRepo) Credit(_ context.Context, order repository.CreditOrder) (domain.CreditResult, error) {
	f.orders = append(f.orders, order)

	if f.missing[order.UserID] {
		return domain.CreditResult{}, repository.ErrUserNotFound
	}

	key := grantKey(order.UserID, string(order.Action), order.Reference)
	if f.grants[key] {
		if order.IgnoreDuplicate {
			return domain.CreditResult{
				Points: f.points[order.UserID],
				Coins:  f.coins[order.UserID],
				Level:  f.points[order.UserID]/order.LevelSize + 1,
			}, nil
		}

		return domain.CreditResult{}, repository.ErrDuplicateReward
	}
	f.grants[key] = true
	f.grantLog = append(f.grantLog, domain.RewardGrant{
		UserID:    order.UserID,
		Action:    string(order.Action),
		Reference: order.Reference,
		Points:    order.Points,
		Coins:     order.Coins,
	})

	f.points[order.UserID] += order.Points
	f.coins[order.UserID] += order.Coins

	held := f.held[order.UserID]
	if held == nil {
		held = make(map[string]bool)
		f.held[order.UserID] = held
	}

	var unlocked []domain.EarnedBadge
	for _, b := range order.Badges {
		if b.Threshold > f.points[order.UserID] {
			break
		}
		if held[b.ID] {
			continue
		}
		held[b.ID] = true
		unlocked = append(unlocked, domain.EarnedBadge{BadgeID: b.ID, Name: b.Name, Tier: b.Tier})
	}

	return domain.CreditResult{
		Points:         f.points[order.UserID],
		Coins:          f.coins[order.UserID],
		Level:          f.points[order.UserID]/order.LevelSize + 1,
		UnlockedBadges: unlocked,
	}, nil
}

func (f *fakeLedgerRepo) AwardCoins(_ context.Context, userID uint, amount int) (domain.User, error) {
	if f.missing[userID] {
		return domain.User{}, repository.ErrUserNotFound
	}

	f.coins[userID] += amount

	return domain.User{ID: userID, Coins: f.coins[userID]}, nil
}

func (f *fakeLedgerRepo) SpendCoins(_ context.Context, userID uint, amount int) (domain.User, error) {
	if f.missing[userID] {
		return domain.User{}, repository.ErrUserNotFound
	}
	if f.coins[userID] < amount {
		return domain.User{}, repository.ErrInsufficientCoins
	}

	f.coins[userID] -= amount

	return domain.User{ID: userID, Coins: f.coins[userID]}, nil
}

func (f *fakeLedgerRepo) GrantsByUserID(_ context.Context, userID uint) ([]domain.RewardGrant, error) {
	var grants []domain.RewardGrant
	for _, g := range f.grantLog {
		if g.UserID == userID {
			grants = append(grants, g)
		}
	}

	return grants, nil
}

// fakeEventRepo stubs the event store with overridable behavior per test.
type fakeEventRepo struct {
	events map[uint]domain.Event

	createFn            func(event domain.Event) (domain.Event, error)
	updateStatusFn      func(eventID uint, from, to domain.EventStatus, rejectReason string) (domain.Event, error)
	addParticipantFn    func(eventID, userID uint, credit *repository.CreditOrder) (domain.Event, int, error)
	removeParticipantFn func(eventID, userID uint) (domain.Event, error)
	recordDonationFn    func(donation domain.Donation, credits []repository.CreditOrder) (domain.Donation, error)

	lastCredit  *repository.CreditOrder
	lastCredits []repository.CreditOrder
}

func newFakeEventRepo(events ...domain.Event) *fakeEventRepo {
	repo := &fakeEventRepo{events: make(map[uint]domain.Event)}
	for _, e := range events {
		repo.events[e.ID] = e
	}

	return repo
}

func (f *fakeEventRepo) Create(_ context.Context, event domain.Event) (domain.Event, error) {
	if f.createFn != nil {
		return f.createFn(event)
	}

	event.ID = uint(len(f.events) + 1)
	f.events[event.ID] = event

	return event, nil
}

func (f *fakeEventRepo) FindByID(_ context.Context, id uint) (domain.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}

	return event, nil
}

func (f *fakeEventRepo) ListApproved(_ context.Context) ([]domain.Event, error) {
	var events []domain.Event
	for _, e := range f.events {
		if e.Status == domain.EventApproved {
			events = append(events, e)
		}
	}

	return events, nil
}

func (f *fakeEventRepo) ListByOrganizerID(_ context.Context, organizerID uint) ([]domain.Event, error) {
	var events []domain.Event
	for _, e := range f.events {
		if e.OrganizerID == organizerID {
			events = append(events, e)
		}
	}

	return events, nil
}

func (f *fakeEventRepo) UpdateStatus(_ context.Context, eventID uint, from, to domain.EventStatus, rejectReason string) (domain.Event, error) {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(eventID, from, to, rejectReason)
	}

	event, ok := f.events[eventID]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}
	if event.Status != from {
		return domain.Event{}, repository.ErrInvalidTransition
	}

	event.Status = to
	event.RejectReason = rejectReason
	f.events[eventID] = event

	return event, nil
}

func (f *fakeEventRepo) AddParticipant(_ context.Context, eventID, userID uint, credit *repository.CreditOrder) (domain.Event, int, error) {
	f.lastCredit = credit
	if f.addParticipantFn != nil {
		return f.addParticipantFn(eventID, userID, credit)
	}

	event, ok := f.events[eventID]
	if !ok {
		return domain.Event{}, 0, repository.ErrEventNotFound
	}

	earned := 0
	if credit != nil {
		earned = credit.Points
	}
	event.Participants = append(event.Participants, userID)
	f.events[eventID] = event

	return event, earned, nil
}

func (f *fakeEventRepo) RemoveParticipant(_ context.Context, eventID, userID uint) (domain.Event, error) {
	if f.removeParticipantFn != nil {
		return f.removeParticipantFn(eventID, userID)
	}

	event, ok := f.events[eventID]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}

	return event, nil
}

func (f *fakeEventRepo) RecordDonation(_ context.Context, donation domain.Donation, credits []repository.CreditOrder) (domain.Donation, error) {
	f.lastCredits = credits
	if f.recordDonationFn != nil {
		return f.recordDonationFn(donation, credits)
	}

	donation.ID = 1

	return donation, nil
}

// fakeApplicationRepo stubs the application store.
type fakeApplicationRepo struct {
	applications map[uint]domain.Application
	existing     map[string]bool

	lastCredit *repository.CreditOrder
}

func newFakeApplicationRepo(applications ...domain.Application) *fakeApplicationRepo {
	repo := &fakeApplicationRepo{
		applications: make(map[uint]domain.Application),
		existing:     make(map[string]bool),
	}
	for _, a := range applications {
		repo.applications[a.ID] = a
		repo.existing[fmt.Sprintf("%d|%d", a.EventID, a.ApplicantID)] = true
	}

	return repo
}

func (f *fakeApplicationRepo) Create(_ context.Context, application domain.Application, credit *repository.CreditOrder) (domain.Application, error) {
	f.lastCredit = credit

	key := fmt.Sprintf("%d|%d", application.EventID, application.ApplicantID)
	if f.existing[key] {
		return domain.Application{}, repository.ErrApplicationExists
	}
	f.existing[key] = true

	application.ID = uint(len(f.applications) + 1)
	application.Status = domain.ApplicationPending
	f.applications[application.ID] = application

	return application, nil
}

func (f *fakeApplicationRepo) FindByID(_ context.Context, id uint) (domain.Application, error) {
	application, ok := f.applications[id]
	if !ok {
		return domain.Application{}, repository.ErrApplicationNotFound
	}

	return application, nil
}

func (f *fakeApplicationRepo) ListByEventID(_ context.Context, eventID uint) ([]domain.Application, error) {
	var applications []domain.Application
	for _, a := range f.applications {
		if a.EventID == eventID {
			applications = append(applications, a)
		}
	}

	return applications, nil
}

func (f *fakeApplicationRepo) ListByApplicantID(_ context.Context, applicantID uint) ([]domain.Application, error) {
	var applications []domain.Application
	for _, a := range f.applications {
		if a.ApplicantID == applicantID {
			applications = append(applications, a)
		}
	}

	return applications, nil
}

func (f *fakeApplicationRepo) UpdateStatus(_ context.Context, id uint, status domain.ApplicationStatus) (domain.Application, error) {
	application, ok := f.applications[id]
	if !ok {
		return domain.Application{}, repository.ErrApplicationNotFound
	}
	if application.Terminal() {
		return domain.Application{}, repository.ErrApplicationReviewed
	}

	application.Status = status
	f.applications[id] = application

	return application, nil
}

// fakeCompletionRepo stubs the completion store.
type fakeCompletionRepo struct {
	requests map[uint]domain.CompletionRequest

	lastScore *repository.CreditOrder
	credited  int
}

func newFakeCompletionRepo(requests ...domain.CompletionRequest) *fakeCompletionRepo {
	repo := &fakeCompletionRepo{requests: make(map[uint]domain.CompletionRequest)}
	for _, r := range requests {
		repo.requests[r.ID] = r
	}

	return repo
}

func (f *fakeCompletionRepo) Create(_ context.Context, request domain.CompletionRequest) (domain.CompletionRequest, error) {
	request.ID = uint(len(f.requests) + 1)
	request.Status = domain.CompletionPending
	f.requests[request.ID] = request

	return request, nil
}

func (f *fakeCompletionRepo) FindByID(_ context.Context, id uint) (domain.CompletionRequest, error) {
	request, ok := f.requests[id]
	if !ok {
		return domain.CompletionRequest{}, repository.ErrCompletionNotFound
	}

	return request, nil
}

func (f *fakeCompletionRepo) ListByEventID(_ context.Context, eventID uint) ([]domain.CompletionRequest, error) {
	var requests []domain.CompletionRequest
	for _, r := range f.requests {
		if r.EventID == eventID {
			requests = append(requests, r)
		}
	}

	return requests, nil
}

func (f *fakeCompletionRepo) Review(_ context.Context, id uint, status domain.CompletionStatus, rejectReason string, score *repository.CreditOrder) (domain.CompletionRequest, int, error) {
	f.lastScore = score

	request, ok := f.requests[id]
	if !ok {
		return domain.CompletionRequest{}, 0, repository.ErrCompletionNotFound
	}
	if request.Reviewed() {
		return domain.CompletionRequest{}, 0, repository.ErrCompletionReviewed
	}

	request.Status = status
	request.RejectReason = rejectReason
	f.requests[id] = request

	credited := 0
	if score != nil {
		credited = f.credited
	}

	return request, credited, nil
}

// fakeUserRepo stubs the user store for auth tests.
type fakeUserRepo struct {
	byEmail map[string]domain.User

	lastWelcome *repository.CreditOrder
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{byEmail: make(map[string]domain.User)}
	for _, u := range users {
		repo.byEmail[u.Email] = u
	}

	return repo
}

func (f *fakeUserRepo) Create(_ context.Context, user domain.User, welcome *repository.CreditOrder) (domain.User, error) {
	f.lastWelcome = welcome

	if _, ok := f.byEmail[user.Email]; ok {
		return domain.User{}, repository.ErrUserEmailExists
	}

	user.ID = uint(len(f.byEmail) + 1)
	user.Level = 1
	if welcome != nil {
		user.Points = welcome.Points
		user.Coins = welcome.Coins
	}
	f.byEmail[user.Email] = user

	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}
