package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/graamkart/graamkart-backend/pkg/db/models"
	pkgerrors "github.com/graamkart/graamkart-backend/pkg/errors"
)

func (s *service) ListPosters(ctx context.Context) ([]models.Poster, error) {
	out, err := s.repo.ListPosters(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list posters")
	}
	return out, nil
}

func (s *service) GetPoster(ctx context.Context, id uuid.UUID) (*models.Poster, error) {
	p, err := s.repo.FindPoster(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "poster not found", "load poster")
	}
	return p, nil
}

// CreatePoster requires an image; a poster without a banner is useless
// to the storefront.
func (s *service) CreatePoster(ctx context.Context, name string, image *ImageUpload) (*models.Poster, error) {
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "poster name is required")
	}
	if image == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "poster image is required")
	}
	p := &models.Poster{Name: name}
	url, err := s.uploadImage(ctx, fmt.Sprintf("posters/%s", uuid.New()), image)
	if err != nil {
		return nil, err
	}
	p.ImageURL = url
	if err := s.repo.CreatePoster(ctx, p); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create poster")
	}
	return p, nil
}

// UpdatePoster keeps the existing image when none is sent.
func (s *service) UpdatePoster(ctx context.Context, id uuid.UUID, name string, image *ImageUpload) (*models.Poster, error) {
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "poster name is required")
	}
	p, err := s.GetPoster(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = name
	if image != nil {
		url, err := s.uploadImage(ctx, fmt.Sprintf("posters/%s", p.ID), image)
		if err != nil {
			return nil, err
		}
		p.ImageURL = url
	}
	if err := s.repo.SavePoster(ctx, p); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update poster")
	}
	return p, nil
}

func (s *service) DeletePoster(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.DeletePoster(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete poster")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "poster not found")
	}
	return nil
}
