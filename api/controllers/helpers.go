package controllers

import (
	"context"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/graamkart/graamkart-backend/api/middleware"
	pkgerrors "github.com/graamkart/graamkart-backend/pkg/errors"
)

// maxMultipartMemory bounds in-memory buffering while parsing uploads;
// larger files spill to disk.
const maxMultipartMemory = 10 << 20

func currentUserID(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user identity")
	}
	return id, nil
}

func parseUUIDField(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, field+" must be a valid UUID")
	}
	return id, nil
}

// parseOptionalUUIDField treats empty input as absent.
func parseOptionalUUIDField(raw, field string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := parseUUIDField(raw, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func isMultipart(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data")
}

// formFile returns the named upload, or (nil, nil, nil) when the field
// was not sent; uploads are optional on most routes.
func formFile(r *http.Request, field string) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid file upload")
	}
	return file, header, nil
}

func headerContentType(header *multipart.FileHeader) string {
	ct := header.Header.Get("Content-Type")
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}
