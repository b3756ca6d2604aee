// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tweetgov/tweetgov/internal/access"
	"github.com/tweetgov/tweetgov/pkg/errutil"
)

func TestUserRepository_Create(t *testing.T) {
	user := &access.User{
		ID:        ulid.Make(),
		Username:  "alice",
		Role:      access.RoleAdmin,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
		wantCode  string
	}{
		{
			name: "inserts user",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs(user.ID.String(), "alice", int16(2), user.CreatedAt).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "duplicate username",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
			wantErr: errutil.ErrInvalidArgument,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WillReturnError(errors.New("connection refused"))
			},
			wantCode: "USER_CREATE_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()
			tt.setupMock(mock)

			err = NewUserRepository(mock).Create(context.Background(), user)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantCode != "":
				errutil.AssertErrorCode(t, err, tt.wantCode)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Get(t *testing.T) {
	id := ulid.Make()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "username", "role", "created_at"}

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		want      *access.User
		wantErr   error
		wantAny   bool
	}{
		{
			name: "found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT id, username, role, created_at FROM users WHERE id = \$1`).
					WithArgs(id.String()).
					WillReturnRows(pgxmock.NewRows(cols).AddRow(id.String(), "boss", int16(3), created))
			},
			want: &access.User{ID: id, Username: "boss", Role: access.RoleSuperAdmin, CreatedAt: created},
		},
		{
			name: "not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM users WHERE id`).
					WithArgs(id.String()).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: errutil.ErrNotFound,
		},
		{
			name: "corrupt id",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM users WHERE id`).
					WithArgs(id.String()).
					WillReturnRows(pgxmock.NewRows(cols).AddRow("garbage", "boss", int16(3), created))
			},
			wantAny: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()
			tt.setupMock(mock)

			got, err := NewUserRepository(mock).Get(context.Background(), id)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantAny:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := ulid.Make()
	mock.ExpectQuery(`WHERE LOWER\(username\) = LOWER\(\$1\)`).
		WithArgs("ALICE").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "role", "created_at"}).
			AddRow(id.String(), "alice", int16(1), time.Now()))

	got, err := NewUserRepository(mock).GetByUsername(context.Background(), "ALICE")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, access.RoleRegular, got.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}
