package uuid

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lukasz-zimnoch/dexly/portfolio"
)

type IDService struct{}

func (ids *IDService) NewID() portfolio.ID {
	return uuid.New()
}

// NewIDFromString rejects malformed and nil UUIDs with
// portfolio.ErrInvalidInput.
func (ids *IDService) NewIDFromString(id string) (portfolio.ID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf(
			"%w: malformed id [%v]: [%v]",
			portfolio.ErrInvalidInput,
			id,
			err,
		)
	}

	if parsed == uuid.Nil {
		return nil, fmt.Errorf("%w: nil id", portfolio.ErrInvalidInput)
	}

	return parsed, nil
}
