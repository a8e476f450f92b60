package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsSerializationFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "serialization abort",
			err:  &pgconn.PgError{Code: "40001"},
			want: true,
		},
		{
			name: "deadlock abort",
			err:  &pgconn.PgError{Code: "40P01"},
			want: true,
		},
		{
			name: "wrapped deadlock abort",
			err:  fmt.Errorf("apply award: %w", &pgconn.PgError{Code: "40P01"}),
			want: true,
		},
		{
			name: "unique violation",
			err:  &pgconn.PgError{Code: "23505"},
			want: false,
		},
		{
			// Only the SQLSTATE code counts, never the message text
			name: "message mentioning the code",
			err:  errors.New("update failed near 40001"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSerializationFailure(tt.err); got != tt.want {
				t.Fatalf("isSerializationFailure(%v) = %t, want %t", tt.err, got, tt.want)
			}
		})
	}
}
