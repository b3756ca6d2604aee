// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_Write(t *testing.T) {
	ts := time.Date(2026, 3, 3, 3, 3, 3, 0, time.UTC)

	tests := []struct {
		name      string
		entry     Entry
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   bool
	}{
		{
			name:  "inserts entry without fields",
			entry: Entry{Level: LevelInfo, Category: CategoryAccess, Source: "post", Message: "listed", Timestamp: ts},
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO audit_logs`).
					WithArgs("INFO", "access", "post", "listed", []byte(nil), ts).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "inserts fields as json",
			entry: Entry{
				Level: LevelInfo, Category: CategoryAudit, Source: "moderation", Message: "approved", Timestamp: ts,
				Fields: map[string]any{"request_id": "01REQ"},
			},
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO audit_logs`).
					WithArgs("INFO", "audit", "moderation", "approved", []byte(`{"request_id":"01REQ"}`), ts).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name:  "database error",
			entry: Entry{Level: LevelError, Category: CategoryAction, Source: "post", Message: "x", Timestamp: ts},
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO audit_logs`).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()
			tt.setupMock(mock)

			err = NewPostgresStore(mock).Write(context.Background(), tt.entry)
			if tt.wantErr {
				assert.ErrorContains(t, err, "connection refused")
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresStore_List(t *testing.T) {
	ts := time.Date(2026, 3, 3, 3, 3, 3, 0, time.UTC)
	cols := []string{"level", "category", "source", "message", "fields", "logged_at"}
	action := CategoryAction

	tests := []struct {
		name      string
		category  *Category
		setupMock func(mock pgxmock.PgxPoolIface)
		want      []Entry
		wantErr   bool
	}{
		{
			name: "all categories",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT level, category, source, message, fields, logged_at FROM audit_logs ORDER BY id`).
					WillReturnRows(pgxmock.NewRows(cols).
						AddRow("INFO", "access", "post", "viewed", []byte(nil), ts).
						AddRow("INFO", "audit", "moderation", "approved", []byte(`{"request_id":"01REQ"}`), ts))
			},
			want: []Entry{
				{Level: LevelInfo, Category: CategoryAccess, Source: "post", Message: "viewed", Timestamp: ts},
				{
					Level: LevelInfo, Category: CategoryAudit, Source: "moderation", Message: "approved", Timestamp: ts,
					Fields: map[string]any{"request_id": "01REQ"},
				},
			},
		},
		{
			name:     "filtered",
			category: &action,
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM audit_logs WHERE category = \$1 ORDER BY id`).
					WithArgs("action").
					WillReturnRows(pgxmock.NewRows(cols).
						AddRow("ERROR", "action", "post", "update failed", []byte(nil), ts))
			},
			want: []Entry{
				{Level: LevelError, Category: CategoryAction, Source: "post", Message: "update failed", Timestamp: ts},
			},
		},
		{
			name: "query error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM audit_logs`).WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()
			tt.setupMock(mock)

			got, err := NewPostgresStore(mock).List(context.Background(), tt.category)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
