package usecase

import (
	"errors"
	"fmt"

	"SignalDesk/internal/domain/models"
)

// asUpstream makes sure a provider failure is classified as ErrUpstream.
func asUpstream(err error) error {
	if err == nil || errors.Is(err, models.ErrUpstream) {
		return err
	}
	return fmt.Errorf("%w: %w", models.ErrUpstream, err)
}
