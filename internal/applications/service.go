package applications

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/errs"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/storage"
	"go.uber.org/zap"
)

type Service struct {
	applications *Repository

	logger *zap.Logger
}

func NewService(applications *Repository, logger *zap.Logger) *Service {
	return &Service{
		applications: applications,
		logger:       logger,
	}
}

func (s *Service) Create(ctx context.Context, draft ApplicationDraft) (*Application, error) {
	s.logger.Info("creating application", zap.String("name", draft.Name), zap.String("bundle_id", draft.BundleID))

	application, err := s.applications.Create(ctx, &draft)
	if err != nil {
		s.logger.Error("failed to create application", zap.Error(err))
		return nil, err
	}

	s.logger.Info("application created", zap.String("id", application.ID.String()))
	return application, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Application, error) {
	s.logger.Debug("getting application", zap.String("id", id.String()))

	return s.applications.GetByID(ctx, id)
}

// Exists reports whether the application is registered.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.applications.GetByID(ctx, id)
	if errors.Is(err, errs.ErrApplicationNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (s *Service) List(ctx context.Context, page storage.Page) (storage.Paged[Application], error) {
	return s.applications.List(ctx, page)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, update ApplicationUpdate) (*Application, error) {
	s.logger.Info("updating application", zap.String("id", id.String()))

	application, err := s.applications.Update(ctx, id, func(a *Application) error {
		if update.Name != nil {
			a.Name = *update.Name
		}
		if update.Description != nil {
			a.Description = *update.Description
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to update application", zap.String("id", id.String()), zap.Error(err))
		return nil, err
	}

	return application, nil
}
