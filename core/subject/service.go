package subject

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("subject not found")

type (
	Repository interface {
		CreateSubject(ctx context.Context, sub Subject) (Subject, error)
		QueryAllSubjects(ctx context.Context) ([]Subject, error)
		GetSubjectByID(ctx context.Context, id int) (Subject, error)
		DeleteSubject(ctx context.Context, id int) error
		// AssociateUser links a user to a subject. Re-associating is a no-op.
		AssociateUser(ctx context.Context, userID, subjectID int) error
		QuerySubjectsByUser(ctx context.Context, userID int) ([]Subject, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Create(ctx context.Context, ns NewSubject) (Subject, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Subject{}, err
	}
	sub := Subject{
		Name:  ns.Name,
		Code:  ns.Code,
		Color: ns.Color,
		Icon:  ns.Icon,
	}
	sub, err := svc.repo.CreateSubject(ctx, sub)
	return sub, errors.Wrap(err, "creating subject")
}

// GetAll returns every subject ordered by name.
func (svc *Service) GetAll(ctx context.Context) ([]Subject, error) {
	return svc.repo.QueryAllSubjects(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Subject, error) {
	return svc.repo.GetSubjectByID(ctx, id)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteSubject(ctx, id)
}

// Associate links a user to a subject; duplicates are a success, not an error.
func (svc *Service) Associate(ctx context.Context, userID, subjectID int) error {
	return svc.repo.AssociateUser(ctx, userID, subjectID)
}

// ListByUser returns the user's subjects ordered by name.
func (svc *Service) ListByUser(ctx context.Context, userID int) ([]Subject, error) {
	return svc.repo.QuerySubjectsByUser(ctx, userID)
}
