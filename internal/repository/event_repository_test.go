package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/synergysphere/project-collab-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockedRepo(t *testing.T) (EventRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return NewEventRepository(db), mock
}

func TestEventRepository_Append(t *testing.T) {
	repo, mock := newMockedRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "task_events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	actorID := uint64(3)
	event := &models.TaskEvent{
		TaskID:    42,
		ProjectID: 1,
		ActorID:   &actorID,
		Type:      models.EventCompleted,
	}
	require.NoError(t, repo.Append(event))
	require.Equal(t, uint64(7), event.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestEventRepository_ListByTask_Ordering pins the history read: ascending
// creation time with the monotonic id breaking ties.
func TestEventRepository_ListByTask_Ordering(t *testing.T) {
	repo, mock := newMockedRepo(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "task_id", "project_id", "actor_id", "type", "from_status", "to_status", "created_at",
	}).
		AddRow(1, 42, 1, nil, "created", "", "", now).
		AddRow(2, 42, 1, nil, "status_changed", "todo", "done", now).
		AddRow(3, 42, 1, nil, "completed", "", "", now)

	mock.ExpectQuery(`SELECT \* FROM "task_events" WHERE task_id = \$1 ORDER BY created_at ASC, id ASC`).
		WithArgs(uint64(42)).
		WillReturnRows(rows)

	events, err := repo.ListByTask(42)
	require.NoError(t, err)
	require.Len(t, events, 3)
	require.Equal(t, models.EventCreated, events[0].Type)
	require.Equal(t, models.EventStatusChanged, events[1].Type)
	require.Equal(t, models.EventCompleted, events[2].Type)
	require.NoError(t, mock.ExpectationsWereMet())
}
