package services

import (
	"context"
	"errors"

	"github.com/avramovs/clientbook/internal/common"
	"github.com/avramovs/clientbook/internal/models"
	"github.com/avramovs/clientbook/internal/server/repositories/records"
)

// RecordService serves the shared dataset. Every authenticated user may
// read every record; mutations are restricted to the record's owner, the
// server-side twin of the client's permission checks.
type RecordService struct {
	repo records.Repository
}

func NewRecordService(repo records.Repository) *RecordService {
	return &RecordService{repo: repo}
}

func (s *RecordService) List(ctx context.Context, query string) ([]models.Record, error) {
	out, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return out, nil
}

func (s *RecordService) Get(ctx context.Context, id string) (*models.Record, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}
	return rec, nil
}

func (s *RecordService) Create(ctx context.Context, userID string, fields models.RecordFields) (*models.Record, error) {
	rec, err := s.repo.Create(ctx, userID, fields)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return rec, nil
}

// Update overwrites the editable fields of a record the caller owns.
// A non-owner gets common.ErrorForbidden and the record stays untouched.
func (s *RecordService) Update(ctx context.Context, userID, id string, fields models.RecordFields) (*models.Record, error) {
	if err := s.checkOwnership(ctx, userID, id); err != nil {
		return nil, err
	}

	rec, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}
	return rec, nil
}

// Delete removes a record the caller owns.
func (s *RecordService) Delete(ctx context.Context, userID, id string) error {
	if err := s.checkOwnership(ctx, userID, id); err != nil {
		return err
	}

	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return common.ErrorInternal
	}
	return nil
}

func (s *RecordService) checkOwnership(ctx context.Context, userID, id string) error {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return common.ErrorInternal
	}
	if rec.OwnerID != userID {
		return common.ErrorForbidden
	}
	return nil
}
