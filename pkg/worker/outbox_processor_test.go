package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarogyahq/booking-api/internal/repository/postgres"
	"github.com/aarogyahq/booking-api/pkg/logger"
	"github.com/aarogyahq/booking-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("outbox_worker_test", "test")

type fakeBroker struct {
	published []string
	err       error
}

func (f *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, channel)
	return nil
}

func (f *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}

func (f *fakeBroker) Close() error { return nil }

func newProcessor(t *testing.T, broker *fakeBroker) (*OutboxProcessor, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := postgres.NewOutboxRepository(sqlx.NewDb(db, "sqlmock"))
	p := NewOutboxProcessor(repo, broker, OutboxProcessorConfig{
		BatchSize:     10,
		PollInterval:  time.Second,
		RetryAttempts: 3,
		RetryDelay:    time.Second,
	}, logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard}), testMetrics)
	return p, mock
}

var outboxColumns = []string{
	"id", "event_type", "payload", "status", "error_message",
	"retry_count", "retry_at", "created_at", "processed_at", "updated_at",
}

func eventRow(rows *sqlmock.Rows, id uuid.UUID, eventType string, retryCount int) {
	now := time.Now()
	rows.AddRow(id, eventType, json.RawMessage(`{"token_id":"x"}`), "pending", nil,
		retryCount, nil, now, nil, now)
}

// The SELECT ... FOR UPDATE SKIP LOCKED row locks release on commit, so
// fetching and settling a batch must happen on one transaction or another
// processor could publish the same events again.
func TestOutboxProcessor_SettlesBatchInOneTransaction(t *testing.T) {
	broker := &fakeBroker{}
	p, mock := newProcessor(t, broker)

	firstID, secondID := uuid.New(), uuid.New()
	rows := sqlmock.NewRows(outboxColumns)
	eventRow(rows, firstID, "token.booked", 0)
	eventRow(rows, secondID, "availability.updated", 0)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE SKIP LOCKED").WithArgs(10).WillReturnRows(rows)
	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("processed", nil, firstID, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("processed", nil, secondID, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, p.processEvents(context.Background()))
	assert.Equal(t, []string{"token.booked", "availability.updated"}, broker.published)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxProcessor_FailedPublishSchedulesRetryOnSameTransaction(t *testing.T) {
	broker := &fakeBroker{err: errors.New("redis down")}
	p, mock := newProcessor(t, broker)

	id := uuid.New()
	rows := sqlmock.NewRows(outboxColumns)
	eventRow(rows, id, "token.booked", 0)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE SKIP LOCKED").WithArgs(10).WillReturnRows(rows)
	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("retry", sqlmock.AnyArg(), id, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, p.processEvents(context.Background()))
	assert.Empty(t, broker.published)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxProcessor_ExhaustedRetriesMarkFailed(t *testing.T) {
	broker := &fakeBroker{err: errors.New("redis down")}
	p, mock := newProcessor(t, broker)

	id := uuid.New()
	rows := sqlmock.NewRows(outboxColumns)
	eventRow(rows, id, "token.booked", 3)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE SKIP LOCKED").WithArgs(10).WillReturnRows(rows)
	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("failed", sqlmock.AnyArg(), id, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, p.processEvents(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxProcessor_EmptyBatchRollsBack(t *testing.T) {
	broker := &fakeBroker{}
	p, mock := newProcessor(t, broker)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE SKIP LOCKED").WithArgs(10).
		WillReturnRows(sqlmock.NewRows(outboxColumns))
	mock.ExpectRollback()

	require.NoError(t, p.processEvents(context.Background()))
	assert.Empty(t, broker.published)
	assert.NoError(t, mock.ExpectationsWereMet())
}
