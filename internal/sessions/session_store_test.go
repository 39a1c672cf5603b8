package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) (SessionStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}
	return NewSessionStore(gdb), mock
}

func sessionColumns() []string {
	return []string{"id", "user_id", "token", "expires_at", "created_at"}
}

func TestFindValidReturnsLiveSession(t *testing.T) {
	store, mock := newTestStore(t)
	expiresAt := time.Now().Add(time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM `sessions` WHERE token = (.+) AND expires_at > (.+)").
		WithArgs("tok-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(sessionColumns()).
			AddRow(1, 7, "tok-1", expiresAt, time.Now()))

	session, err := store.FindValid(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("FindValid() error = %v", err)
	}
	if session == nil || session.UserID != 7 {
		t.Fatalf("FindValid() = %+v, want session of user 7", session)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// Expired rows are filtered in the query itself, so a miss and an expired row
// are indistinguishable to the caller.
func TestFindValidMissIsNotAnError(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT (.+) FROM `sessions` WHERE token = (.+) AND expires_at > (.+)").
		WithArgs("unknown", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(sessionColumns()))

	session, err := store.FindValid(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("FindValid() error = %v", err)
	}
	if session != nil {
		t.Fatalf("FindValid() = %+v, want nil", session)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDeleteByTokenIdempotent(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec("DELETE FROM `sessions` WHERE token = (.+)").
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	count, err := store.DeleteByToken(context.Background(), "gone")
	if err != nil {
		t.Fatalf("DeleteByToken() error = %v", err)
	}
	if count != 0 {
		t.Errorf("DeleteByToken() count = %d, want 0", count)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDeleteAllForUserExceptToken(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec("DELETE FROM `sessions` WHERE user_id = (.+) AND token <> (.+)").
		WithArgs(7, "keep-me").
		WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := store.DeleteAllForUser(context.Background(), 7, "keep-me")
	if err != nil {
		t.Fatalf("DeleteAllForUser() error = %v", err)
	}
	if count != 2 {
		t.Errorf("DeleteAllForUser() count = %d, want 2", count)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSweepExpired(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec("DELETE FROM `sessions` WHERE expires_at <= (.+)").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	count, err := store.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("SweepExpired() error = %v", err)
	}
	if count != 3 {
		t.Errorf("SweepExpired() count = %d, want 3", count)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateSurfacesStorageError(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec("INSERT INTO `sessions`").
		WillReturnError(errors.New("connection refused"))

	_, err := store.Create(context.Background(), 7, "tok-1", time.Now().Add(time.Hour))
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("Create() error = %v, want *StorageError", err)
	}
}
