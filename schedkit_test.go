package schedkit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestPlanner(t *testing.T) *Planner {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "open in-memory sqlite")

	store := NewGormStore(db)
	require.NoError(t, store.Migrate(context.Background()), "migrate schema")
	return New(store, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestPlanner_BiweeklyScenario(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t)

	item, err := p.Create(ctx, Draft{
		UserID:    "user-1",
		Title:     "Sprint planning",
		StartDate: date(2025, time.January, 6), // a Monday
		StartTime: "10:00",
		EndDate:   date(2025, time.January, 6),
		EndTime:   "11:00",
		Repeats:   true,
		Frequency: Weekly,
		Interval:  2,
		Count:     3,
	})
	require.NoError(t, err)
	assert.Equal(t, "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO;COUNT=3", item.Rule)

	instances, err := p.Agenda(ctx, "user-1", date(2025, time.January, 1), date(2025, time.December, 31))
	require.NoError(t, err)
	require.Len(t, instances, 3)

	want := []time.Time{
		at(2025, time.January, 6, 10, 0),
		at(2025, time.January, 20, 10, 0),
		at(2025, time.February, 3, 10, 0),
	}
	for i, inst := range instances {
		assert.True(t, inst.IsRecurringInstance)
		assert.Equal(t, item.ID, inst.BaseID)
		assert.True(t, inst.AnchorStart.Equal(want[i]), "instance %d start %v", i, inst.AnchorStart)
		require.NotNil(t, inst.AnchorEnd)
		assert.Equal(t, time.Hour, inst.AnchorEnd.Sub(inst.AnchorStart))
	}
}

func TestPlanner_AgendaMergesAndSorts(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t)

	_, err := p.Create(ctx, Draft{
		UserID:    "user-1",
		Title:     "Weekly review",
		StartDate: date(2025, time.January, 6),
		StartTime: "16:00",
		Repeats:   true,
		Frequency: Weekly,
		Interval:  1,
		Kind:      KindTask,
	})
	require.NoError(t, err)

	_, err = p.Create(ctx, Draft{
		UserID:    "user-1",
		Title:     "Dentist",
		StartDate: date(2025, time.January, 8),
		StartTime: "09:15",
		EndDate:   date(2025, time.January, 8),
		EndTime:   "10:00",
	})
	require.NoError(t, err)

	instances, err := p.Agenda(ctx, "user-1", date(2025, time.January, 6), date(2025, time.January, 12))
	require.NoError(t, err)
	require.Len(t, instances, 2)

	assert.Equal(t, "Weekly review", instances[0].Title)
	assert.Equal(t, "Dentist", instances[1].Title)
	assert.False(t, instances[1].IsRecurringInstance)
	for i := 1; i < len(instances); i++ {
		assert.False(t, instances[i].AnchorStart.Before(instances[i-1].AnchorStart))
	}
}

func TestPlanner_AgendaScopedToUser(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t)

	_, err := p.Create(ctx, Draft{
		UserID:    "user-1",
		Title:     "Mine",
		StartDate: date(2025, time.January, 8),
		StartTime: "09:00",
	})
	require.NoError(t, err)

	_, err = p.Create(ctx, Draft{
		UserID:    "user-2",
		Title:     "Theirs",
		StartDate: date(2025, time.January, 8),
		StartTime: "09:00",
	})
	require.NoError(t, err)

	instances, err := p.Agenda(ctx, "user-1", date(2025, time.January, 1), date(2025, time.January, 31))
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, "Mine", instances[0].Title)
}

func TestPlanner_UnreadableRuleDemotesToOneOff(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t)

	item := &ScheduleItem{
		UserID:      "user-1",
		Title:       "Corrupted",
		AnchorStart: at(2025, time.January, 8, 9, 0),
		Rule:        "INTERVAL=2;COUNT=5", // no FREQ
	}
	require.NoError(t, p.store.Create(ctx, item))

	instances, err := p.Agenda(ctx, "user-1", date(2025, time.January, 1), date(2025, time.January, 31))
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, "Corrupted", instances[0].Title)
	assert.False(t, instances[0].IsRecurringInstance)
}

func TestPlanner_UnknownFrequencyYieldsAnchorOnly(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t)

	item := &ScheduleItem{
		UserID:      "user-1",
		Title:       "Odd series",
		AnchorStart: at(2025, time.January, 8, 9, 0),
		Rule:        "FREQ=HOURLY;INTERVAL=1",
	}
	require.NoError(t, p.store.Create(ctx, item))

	instances, err := p.Agenda(ctx, "user-1", date(2025, time.January, 1), date(2025, time.January, 31))
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.True(t, instances[0].IsRecurringInstance)
	assert.True(t, instances[0].AnchorStart.Equal(item.AnchorStart))
}

func TestPlanner_RescheduleSeries(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t)

	item, err := p.Create(ctx, Draft{
		UserID:    "user-1",
		Title:     "Dentist",
		StartDate: date(2025, time.January, 6),
		StartTime: "09:15",
		EndDate:   date(2025, time.January, 6),
		EndTime:   "10:00",
	})
	require.NoError(t, err)

	moved, err := p.RescheduleSeries(ctx, item.ID, date(2025, time.January, 10))
	require.NoError(t, err)
	assert.True(t, moved.AnchorStart.Equal(at(2025, time.January, 10, 9, 15)))
	require.NotNil(t, moved.AnchorEnd)
	assert.True(t, moved.AnchorEnd.Equal(at(2025, time.January, 10, 10, 0)))
}

func TestPlanner_DetachOccurrenceAppearsInAgenda(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t)

	_, err := p.Create(ctx, Draft{
		UserID:    "user-1",
		Title:     "Standup",
		StartDate: date(2025, time.January, 6),
		StartTime: "10:00",
		EndDate:   date(2025, time.January, 6),
		EndTime:   "10:15",
		Repeats:   true,
		Frequency: Weekly,
		Interval:  1,
		Count:     2,
	})
	require.NoError(t, err)

	instances, err := p.Agenda(ctx, "user-1", date(2025, time.January, 6), date(2025, time.January, 19))
	require.NoError(t, err)
	require.Len(t, instances, 2)

	// Drag the second occurrence to Wednesday, as a one-off.
	detached, err := p.DetachOccurrence(ctx, instances[1], date(2025, time.January, 15))
	require.NoError(t, err)
	assert.False(t, detached.Recurring())

	instances, err = p.Agenda(ctx, "user-1", date(2025, time.January, 6), date(2025, time.January, 19))
	require.NoError(t, err)
	require.Len(t, instances, 3, "series still expands; detached copy joins it")
}

func TestPlanner_AgendaExportsICS(t *testing.T) {
	ctx := context.Background()
	p := newTestPlanner(t)

	_, err := p.Create(ctx, Draft{
		UserID:    "user-1",
		Title:     "Standup",
		StartDate: date(2025, time.January, 6),
		StartTime: "10:00",
		EndDate:   date(2025, time.January, 6),
		EndTime:   "10:15",
		Repeats:   true,
		Frequency: Daily,
		Count:     3,
	})
	require.NoError(t, err)

	instances, err := p.Agenda(ctx, "user-1", date(2025, time.January, 1), date(2025, time.January, 31))
	require.NoError(t, err)

	out := ExportICS(instances)
	assert.Contains(t, out, "SUMMARY:Standup")
	assert.Contains(t, out, "DTSTART:20250106T100000Z")
	assert.Contains(t, out, "DTSTART:20250108T100000Z")
}
