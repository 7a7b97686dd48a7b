//go:build integration_test || all_tests

package test

import (
	"context"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/workoutlog/internal/records"
	"github.com/2beens/workoutlog/internal/units"
)

func (s *IntegrationTestSuite) TestRecordsRepo_UpsertKeepsHeavier() {
	t := s.T()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo := records.NewRepo(s.PgPool)
	require.NoError(t, repo.EnsureTracked(ctx, "user-pr", []string{"bench press"}))

	day1 := time.Date(2024, time.May, 1, 18, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	record := func(value float64, unit units.WeightUnit, date time.Time) records.PersonalRecord {
		return records.PersonalRecord{UserID: "user-pr", Exercise: "bench press", Value: value, Unit: unit, Date: &date}
	}

	// the placeholder row is always replaced
	stored, err := repo.Upsert(ctx, record(110, units.Kilograms, day1))
	require.NoError(t, err)
	assert.True(t, stored)

	// a workout that read the records before 110 was stored
	stored, err = repo.Upsert(ctx, record(105, units.Kilograms, day2))
	require.NoError(t, err)
	assert.False(t, stored)

	// 242.5 lb is just below 110 kg
	stored, err = repo.Upsert(ctx, record(242.5, units.Pounds, day2))
	require.NoError(t, err)
	assert.False(t, stored)

	list, err := repo.List(ctx, "user-pr")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 110.0, list[0].Value)
	assert.Equal(t, units.Kilograms, list[0].Unit)

	stored, err = repo.Upsert(ctx, record(250, units.Pounds, day2))
	require.NoError(t, err)
	assert.True(t, stored)

	list, err = repo.List(ctx, "user-pr")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 250.0, list[0].Value)
	assert.Equal(t, units.Pounds, list[0].Unit)
}
