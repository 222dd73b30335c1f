package entities

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

const payload = `{"id":"n1","title":"Note A"}`

func TestPostgres_Upsert(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+entities.*ON\s+CONFLICT\s*\(user_id, kind, id\)`).
		WithArgs("u1", "NOTE", "n1", payload).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), "u1", "NOTE", "n1", json.RawMessage(payload)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Upsert_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`INSERT INTO entities`).WillReturnError(errors.New("db down"))

	err := repo.Upsert(context.Background(), "u1", "NOTE", "n1", json.RawMessage(payload))
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestPostgres_Update(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"updated", 1, nil},
		{"missing", 0, common.ErrorNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepoWithMock(t)
			mock.ExpectExec(`(?s)UPDATE\s+entities\s+SET\s+payload`).
				WithArgs("u1", "NOTE", "n1", payload).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.Update(context.Background(), "u1", "NOTE", "n1", json.RawMessage(payload))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgres_Delete_MissingIsFine(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(`DELETE FROM entities WHERE user_id = \$1 AND kind = \$2 AND id = \$3`).
		WithArgs("u1", "TAG", "t1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "u1", "TAG", "t1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_List(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"user_id", "kind", "id", "payload", "updated_at"}).
		AddRow("u1", "NOTE", "a", []byte(`{"id":"a"}`), ts).
		AddRow("u1", "NOTE", "b", []byte(`{"id":"b"}`), ts)
	mock.ExpectQuery(`(?s)SELECT .* FROM entities\s+WHERE user_id = \$1 AND kind = \$2`).
		WithArgs("u1", "NOTE").
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), "u1", "NOTE")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1].ID)
	assert.JSONEq(t, `{"id":"a"}`, string(got[0].Payload))
	assert.True(t, got[0].UpdatedAt.Equal(ts))
}

func TestPostgres_List_ScanError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	rows := sqlmock.NewRows([]string{"user_id", "kind", "id", "payload", "updated_at"}).
		AddRow("u1", "NOTE", "a", []byte(`{}`), "not a time")
	mock.ExpectQuery(`SELECT`).WillReturnRows(rows)

	_, err := repo.List(context.Background(), "u1", "NOTE")
	require.Error(t, err)
}
