package uuid

import (
	"errors"
	"testing"

	"github.com/lukasz-zimnoch/dexly/portfolio"
)

func TestIDService_NewIDFromString(t *testing.T) {
	idService := &IDService{}

	id := idService.NewID()

	parsed, err := idService.NewIDFromString(id.String())
	if err != nil {
		t.Fatal(err)
	}

	if parsed.String() != id.String() {
		t.Errorf(
			"unexpected id\n"+
				"expected: [%v]\n"+
				"actual:   [%v]",
			id.String(),
			parsed.String(),
		)
	}
}

func TestIDService_NewIDFromString_Invalid(t *testing.T) {
	idService := &IDService{}

	for _, value := range []string{
		"",
		"not-an-id",
		"00000000-0000-0000-0000-000000000000",
	} {
		_, err := idService.NewIDFromString(value)
		if !errors.Is(err, portfolio.ErrInvalidInput) {
			t.Errorf(
				"unexpected error for [%v]\n"+
					"expected: [%v]\n"+
					"actual:   [%v]",
				value,
				portfolio.ErrInvalidInput,
				err,
			)
		}
	}
}
