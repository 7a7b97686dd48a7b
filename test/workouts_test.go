//go:build integration_test || all_tests

package test

import (
	"context"
	"net/http"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/workoutlog/internal/profile"
	"github.com/2beens/workoutlog/internal/records"
	"github.com/2beens/workoutlog/internal/sessions"
	"github.com/2beens/workoutlog/internal/stats"
	"github.com/2beens/workoutlog/internal/workouts"
)

func benchWorkout(weight string, date time.Time) workouts.WorkoutSummary {
	return workouts.WorkoutSummary{
		Name:       "Push day",
		Date:       date,
		Duration:   45 * 60,
		WeightUnit: "kg",
		Exercises: []workouts.WorkoutExercise{
			{
				Name: "Bench Press",
				Sets: []workouts.ExerciseSet{
					{Weight: weight, Reps: "5", Completed: true},
					{Weight: weight, Reps: "5", Completed: false},
				},
			},
		},
	}
}

func (s *IntegrationTestSuite) getStats(ctx context.Context, token string) stats.StatsResponse {
	var resp stats.StatsResponse
	s.doRequest(ctx, http.MethodGet, "/stats", token, nil, http.StatusOK, &resp)
	return resp
}

func (s *IntegrationTestSuite) TestWorkouts_StatsAndRecords() {
	ctx := context.Background()
	token := s.tokenFor("user-workouts")
	now := time.Now().UTC()

	assert.Equal(s.T(), 0, s.getStats(ctx, token).TotalWorkouts)

	var first workouts.AddWorkoutResult
	s.doRequest(ctx, http.MethodPost, "/workouts", token, benchWorkout("100", now.Add(-48*time.Hour)), http.StatusCreated, &first)
	assert.Equal(s.T(), 2, first.Workout.TotalSets)
	assert.Equal(s.T(), 1, first.Workout.CompletedSets)
	assert.Equal(s.T(), []string{"bench press"}, first.NewRecords)

	var second workouts.AddWorkoutResult
	s.doRequest(ctx, http.MethodPost, "/workouts", token, benchWorkout("90", now.Add(-24*time.Hour)), http.StatusCreated, &second)
	assert.Empty(s.T(), second.NewRecords)

	var third workouts.AddWorkoutResult
	s.doRequest(ctx, http.MethodPost, "/workouts", token, benchWorkout("105", now), http.StatusCreated, &third)
	assert.Equal(s.T(), []string{"bench press"}, third.NewRecords)

	st := s.getStats(ctx, token)
	assert.Equal(s.T(), 3, st.TotalWorkouts)
	assert.Equal(s.T(), 3, st.Last7Days)
	assert.Equal(s.T(), 3, st.Streak)
	assert.Equal(s.T(), 45*60, st.AvgDurationSeconds)

	var recordViews []records.RecordView
	s.doRequest(ctx, http.MethodGet, "/records?units=kg", token, nil, http.StatusOK, &recordViews)
	require.Len(s.T(), recordViews, 3)
	assert.Equal(s.T(), "bench press", recordViews[0].Exercise)
	assert.Equal(s.T(), "105 kg", recordViews[0].Display)
	assert.Equal(s.T(), "-", recordViews[1].Display)

	// default profile is imperial
	s.doRequest(ctx, http.MethodGet, "/records", token, nil, http.StatusOK, &recordViews)
	assert.Equal(s.T(), "231 lb", recordViews[0].Display)

	var list workouts.ListResponse
	s.doRequest(ctx, http.MethodGet, "/workouts/page/1/size/10", token, nil, http.StatusOK, &list)
	assert.Equal(s.T(), 3, list.Total)
	require.Len(s.T(), list.Workouts, 3)
	assert.Equal(s.T(), third.Workout.ID, list.Workouts[0].ID)

	s.doRequest(ctx, http.MethodDelete, "/workouts/"+second.Workout.ID, token, nil, http.StatusOK, nil)
	st = s.getStats(ctx, token)
	assert.Equal(s.T(), 2, st.TotalWorkouts)
	assert.Equal(s.T(), 1, st.Streak)

	// other users see nothing
	assert.Equal(s.T(), 0, s.getStats(ctx, s.tokenFor("someone-else")).TotalWorkouts)
	s.doRequest(ctx, http.MethodGet, "/workouts/"+first.Workout.ID, s.tokenFor("someone-else"), nil, http.StatusNotFound, nil)
}

func (s *IntegrationTestSuite) TestWorkouts_Unauthorized() {
	ctx := context.Background()
	s.doRequest(ctx, http.MethodGet, "/stats", "", nil, http.StatusUnauthorized, nil)
	s.doRequest(ctx, http.MethodGet, "/stats", "not-a-token", nil, http.StatusUnauthorized, nil)
	s.doRequest(ctx, http.MethodGet, "/exercises/catalog?q=bench", "", nil, http.StatusOK, nil)
}

func (s *IntegrationTestSuite) TestLogout_RevokesToken() {
	ctx := context.Background()
	token := s.tokenFor("user-logout")

	s.doRequest(ctx, http.MethodGet, "/stats", token, nil, http.StatusOK, nil)
	s.doRequest(ctx, http.MethodPost, "/a/logout", token, nil, http.StatusOK, nil)
	s.doRequest(ctx, http.MethodGet, "/stats", token, nil, http.StatusUnauthorized, nil)

	// a fresh token still works
	s.doRequest(ctx, http.MethodGet, "/stats", s.tokenFor("user-logout"), nil, http.StatusOK, nil)
}

func (s *IntegrationTestSuite) TestSessions_FromRoutine() {
	ctx := context.Background()
	token := s.tokenFor("user-sessions")

	var routine workouts.Routine
	s.doRequest(ctx, http.MethodPost, "/routines", token, workouts.Routine{
		Name: "Legs",
		Exercises: []workouts.WorkoutExercise{
			{Name: "Squat", TargetSets: 3, TargetReps: 5},
		},
	}, http.StatusCreated, &routine)
	require.NotEmpty(s.T(), routine.ID)

	var started sessions.SessionResponse
	s.doRequest(ctx, http.MethodPost, "/sessions", token, sessions.StartRequest{
		Name:       "Legs",
		RoutineID:  routine.ID,
		WeightUnit: "kg",
	}, http.StatusCreated, &started)
	require.Len(s.T(), started.Exercises, 1)
	require.Len(s.T(), started.Exercises[0].Sets, 3)

	exercises := started.Exercises
	exercises[0].Sets[0].Weight = "120"
	exercises[0].Sets[0].Completed = true
	s.doRequest(ctx, http.MethodPut, "/sessions/"+started.ID+"/exercises", token, exercises, http.StatusOK, nil)

	var finished workouts.AddWorkoutResult
	s.doRequest(ctx, http.MethodPost, "/sessions/"+started.ID+"/finish", token, nil, http.StatusCreated, &finished)
	assert.Equal(s.T(), "Legs", finished.Workout.Name)
	assert.Equal(s.T(), 3, finished.Workout.TotalSets)
	assert.Equal(s.T(), 1, finished.Workout.CompletedSets)
	assert.Equal(s.T(), []string{"squat"}, finished.NewRecords)

	// finished sessions are gone
	s.doRequest(ctx, http.MethodGet, "/sessions/"+started.ID, token, nil, http.StatusNotFound, nil)
	assert.Equal(s.T(), 1, s.getStats(ctx, token).TotalWorkouts)
}

func (s *IntegrationTestSuite) TestProfile_PreferencesDriveDisplay() {
	ctx := context.Background()
	token := s.tokenFor("user-profile")

	var view profile.View
	s.doRequest(ctx, http.MethodGet, "/profile", token, nil, http.StatusOK, &view)
	assert.Equal(s.T(), "user-profile@workoutlog.test", view.Email)
	assert.False(s.T(), view.Preferences.UseMetric)

	height, weight := 178.0, 82.0
	s.doRequest(ctx, http.MethodPut, "/profile", token, profile.EditRequest{
		Name:       "Sam",
		Height:     &height,
		HeightUnit: "cm",
		Weight:     &weight,
		WeightUnit: "kg",
	}, http.StatusOK, &view)
	assert.Equal(s.T(), "5'10\"", view.DisplayHeight)
	assert.Equal(s.T(), "181 lb", view.DisplayWeight)

	prefs := view.Preferences
	prefs.UseMetric = true
	s.doRequest(ctx, http.MethodPut, "/profile/preferences", token, prefs, http.StatusOK, &view)
	assert.Equal(s.T(), "178 cm", view.DisplayHeight)
	assert.Equal(s.T(), "82 kg", view.DisplayWeight)
	// stored values are untouched
	require.NotNil(s.T(), view.Weight)
	assert.Equal(s.T(), 82.0, *view.Weight)
}
