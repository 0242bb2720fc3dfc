package repository

import (
	"context"
	"fmt"

	"github.com/volunthub/volunthub-api/internal/domain"
	"github.com/volunthub/volunthub-api/internal/repository/dao"
)

var (
	ErrCompletionNotFound = dao.ErrCompletionNotFound
	ErrCompletionReviewed = dao.ErrCompletionReviewed
)

type CompletionDAO interface {
	Insert(ctx context.Context, request dao.CompletionRequest) (dao.CompletionRequest, error)
	FindByID(ctx context.Context, id uint) (dao.CompletionRequest, error)
	FindByEventID(ctx context.Context, eventID uint) ([]dao.CompletionRequest, error)
	Review(ctx context.Context, id uint, status, rejectReason string, score *dao.CreditSpec) (dao.CompletionRequest, int, error)
}

type CompletionRepository struct {
	dao CompletionDAO
}

func NewCompletionRepository(dao CompletionDAO) *CompletionRepository {
	return &CompletionRepository{
		dao: dao,
	}
}

func (r *CompletionRepository) daoToDomain(c dao.CompletionRequest) domain.CompletionRequest {
	return domain.CompletionRequest{
		ID:           c.ID,
		EventID:      c.EventID,
		OrganizerID:  c.OrganizerID,
		Evidence:     c.Evidence,
		Status:       domain.CompletionStatus(c.Status),
		RejectReason: c.RejectReason,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (r *CompletionRepository) Create(ctx context.Context, request domain.CompletionRequest) (domain.CompletionRequest, error) {
	created, err := r.dao.Insert(ctx, dao.CompletionRequest{
		EventID:     request.EventID,
		OrganizerID: request.OrganizerID,
		Evidence:    request.Evidence,
		Status:      string(domain.CompletionPending),
	})
	if err != nil {
		return domain.CompletionRequest{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *CompletionRepository) FindByID(ctx context.Context, id uint) (domain.CompletionRequest, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.CompletionRequest{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *CompletionRepository) ListByEventID(ctx context.Context, eventID uint) ([]domain.CompletionRequest, error) {
	found, err := r.dao.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEventID -> %w", err)
	}

	requests := make([]domain.CompletionRequest, len(found))
	for i, c := range found {
		requests[i] = r.daoToDomain(c)
	}

	return requests, nil
}

// Review settles the request; on approval, score describes the credit
// applied to every participant. Returns the settled request and how many
// participants were newly credited.
func (r *CompletionRepository) Review(ctx context.Context, id uint, status domain.CompletionStatus, rejectReason string, score *CreditOrder) (domain.CompletionRequest, int, error) {
	var spec *dao.CreditSpec
	if score != nil {
		s := creditOrderToSpec(*score)
		spec = &s
	}

	reviewed, credited, err := r.dao.Review(ctx, id, string(status), rejectReason, spec)
	if err != nil {
		return domain.CompletionRequest{}, 0, fmt.Errorf("r.dao.Review -> %w", err)
	}

	return r.daoToDomain(reviewed), credited, nil
}
