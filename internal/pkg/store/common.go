package store

import (
	"errors"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/ougirez/amrmap/internal/pkg/constants"
)

const tableSamples = "samples"

var errNoRows = pgx.ErrNoRows

// storeErrors переводит ошибки драйвера в доменные. Порядок важен.
var storeErrors = []struct {
	driver error
	domain error
}{
	{driver: errNoRows, domain: constants.ErrDBNotFound},
}

func wrapErr(err error) error {
	for _, e := range storeErrors {
		if errors.Is(err, e.driver) {
			return e.domain
		}
	}
	return err
}

// builder возвращает squirrel SQL Builder обьект.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
