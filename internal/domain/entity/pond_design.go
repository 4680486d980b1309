package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/koicare/pondflow/internal/pkg/apperror"
)

// PondDesign is a design artifact: either a catalog design a consultation
// points at, or the output a designer submits for a design request.
type PondDesign struct {
	ID          uuid.UUID
	Name        string
	Description string
	ImageURLs   []string
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	DeletedAt   *time.Time
}

func NewPondDesign(createdBy uuid.UUID, name, description string, imageURLs []string) (*PondDesign, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.Validation("design name is required")
	}
	if len(imageURLs) == 0 {
		return nil, apperror.Validation("at least one design image is required")
	}

	return &PondDesign{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(description),
		ImageURLs:   imageURLs,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now(),
	}, nil
}

func (d *PondDesign) IsDeleted() bool {
	return d.DeletedAt != nil
}
