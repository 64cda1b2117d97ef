package eventstore

import (
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

func storeError(err error, message, op string) error {
	return errors.WrapError(err, errors.CategoryEventStore, message).
		WithContext("op", op).
		Build()
}
