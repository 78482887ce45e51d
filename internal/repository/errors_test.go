package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapPgError(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name    string
		in      error
		wantIs  []error
		wantNil bool
	}{
		{name: "nil", in: nil, wantNil: true},
		{name: "no rows", in: pgx.ErrNoRows, wantIs: []error{ErrNotFound}},
		{name: "wrapped no rows", in: fmt.Errorf("scan: %w", pgx.ErrNoRows), wantIs: []error{ErrNotFound}},
		{
			name:   "missing table",
			in:     &pgconn.PgError{Code: "42P01", Message: `relation "login_attempts" does not exist`},
			wantIs: []error{ErrStoreUnavailable},
		},
		{name: "other", in: other, wantIs: []error{other}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapPgError(tt.in)
			if tt.wantNil {
				assert.NoError(t, got)
				return
			}
			for _, target := range tt.wantIs {
				assert.ErrorIs(t, got, target)
			}
		})
	}
}
