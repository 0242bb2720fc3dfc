package repository

import (
	"context"
	"fmt"

	"github.com/volunthub/volunthub-api/internal/domain"
	"github.com/volunthub/volunthub-api/internal/repository/dao"
)

var (
	ErrApplicationExists   = dao.ErrApplicationExists
	ErrApplicationNotFound = dao.ErrApplicationNotFound
	ErrApplicationReviewed = dao.ErrApplicationReviewed
)

type ApplicationDAO interface {
	Insert(ctx context.Context, application dao.Application, credit *dao.CreditSpec) (dao.Application, error)
	FindByID(ctx context.Context, id uint) (dao.Application, error)
	FindByEventID(ctx context.Context, eventID uint) ([]dao.Application, error)
	FindByApplicantID(ctx context.Context, applicantID uint) ([]dao.Application, error)
	UpdateStatus(ctx context.Context, id uint, status string) (dao.Application, error)
}

type ApplicationRepository struct {
	dao ApplicationDAO
}

func NewApplicationRepository(dao ApplicationDAO) *ApplicationRepository {
	return &ApplicationRepository{
		dao: dao,
	}
}

func (r *ApplicationRepository) daoToDomain(a dao.Application) domain.Application {
	return domain.Application{
		ID:          a.ID,
		EventID:     a.EventID,
		ApplicantID: a.ApplicantID,
		Message:     a.Message,
		Status:      domain.ApplicationStatus(a.Status),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (r *ApplicationRepository) daosToDomain(daoApps []dao.Application) []domain.Application {
	applications := make([]domain.Application, len(daoApps))
	for i, a := range daoApps {
		applications[i] = r.daoToDomain(a)
	}

	return applications
}

func (r *ApplicationRepository) Create(ctx context.Context, application domain.Application, credit *CreditOrder) (domain.Application, error) {
	var spec *dao.CreditSpec
	if credit != nil {
		s := creditOrderToSpec(*credit)
		spec = &s
	}

	created, err := r.dao.Insert(ctx, dao.Application{
		EventID:     application.EventID,
		ApplicantID: application.ApplicantID,
		Message:     application.Message,
		Status:      string(domain.ApplicationPending),
	}, spec)
	if err != nil {
		return domain.Application{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id uint) (domain.Application, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Application{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ApplicationRepository) ListByEventID(ctx context.Context, eventID uint) ([]domain.Application, error) {
	found, err := r.dao.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEventID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *ApplicationRepository) ListByApplicantID(ctx context.Context, applicantID uint) ([]domain.Application, error) {
	found, err := r.dao.FindByApplicantID(ctx, applicantID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByApplicantID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id uint, status domain.ApplicationStatus) (domain.Application, error) {
	updated, err := r.dao.UpdateStatus(ctx, id, string(status))
	if err != nil {
		return domain.Application{}, fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return r.daoToDomain(updated), nil
}
