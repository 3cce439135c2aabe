package service

import (
	"fmt"

	"delaurel.com/schoolportal/pkg/apperror"
	"github.com/google/uuid"
)

func parseUUID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", s, apperror.ErrValidation)
	}
	return id, nil
}
