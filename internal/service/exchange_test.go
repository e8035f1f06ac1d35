package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/skillswap-go/internal/model"
	"github.com/skillswap/skillswap-go/internal/repository"
	"github.com/skillswap/skillswap-go/internal/repository/sqlitetest"
)

// failingNotifier always errors, standing in for a broken notification
// store.
type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, int64, string, string, string, int64) error {
	return errors.New("notification store unavailable")
}

type exchangeEnv struct {
	db            *sql.DB
	exchanges     *ExchangeService
	notifications *NotificationService
	owner         *model.User
	requester     *model.User
	outsider      *model.User
	skill         *model.Skill
}

// newExchangeEnv seeds an owner with one skill, a requester and an
// uninvolved third user, with the real notification service wired in.
func newExchangeEnv(t *testing.T) *exchangeEnv {
	t.Helper()
	ctx := context.Background()
	db := sqlitetest.New(t)

	users := repository.NewUserRepository(db)
	owner := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x", FullName: "Alice Liddell"}
	requester := &model.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x", FullName: "Bob Stone"}
	outsider := &model.User{Username: "carol", Email: "carol@example.com", PasswordHash: "x", FullName: "Carol Reed"}
	for _, u := range []*model.User{owner, requester, outsider} {
		require.NoError(t, users.Create(ctx, u))
	}

	skills := repository.NewSkillRepository(db)
	skill := &model.Skill{
		UserID:           owner.ID,
		Title:            "Python Programming",
		Description:      "From basics to advanced",
		Category:         "Programming",
		ProficiencyLevel: "Advanced",
		Value:            100,
	}
	require.NoError(t, skills.Create(ctx, skill))

	notifications := NewNotificationService(repository.NewNotificationRepository(db))
	exchanges := NewExchangeService(repository.NewExchangeRepository(db), skills, notifications)

	return &exchangeEnv{
		db:            db,
		exchanges:     exchanges,
		notifications: notifications,
		owner:         owner,
		requester:     requester,
		outsider:      outsider,
		skill:         skill,
	}
}

func (e *exchangeEnv) requestCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.QueryRow(`SELECT COUNT(*) FROM skill_exchange_requests`).Scan(&count))
	return count
}

func (e *exchangeEnv) create(t *testing.T) model.ExchangeResponse {
	t.Helper()
	resp, err := e.exchanges.Create(context.Background(), e.requester, model.CreateExchangeRequest{
		SkillID: e.skill.ID,
		Message: "hi",
	})
	require.NoError(t, err)
	return resp
}

func TestExchangeCreate(t *testing.T) {
	env := newExchangeEnv(t)

	resp := env.create(t)

	assert.NotZero(t, resp.ID)
	assert.Equal(t, model.StatusPending, resp.Status)
	assert.Equal(t, env.requester.ID, resp.RequesterID)
	assert.Equal(t, env.owner.ID, resp.SkillOwnerID, "owner id is captured at creation time")
	assert.Equal(t, "Python Programming", resp.SkillTitle)

	// The skill owner got notified.
	list, err := env.notifications.List(context.Background(), env.owner, 0, 100)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "New Skill Exchange Request", list[0].Title)
	assert.Equal(t, "Bob Stone wants to learn your skill: Python Programming", list[0].Message)
	assert.Equal(t, model.NotificationTypeExchangeRequest, list[0].Type)
	assert.Equal(t, resp.ID, list[0].RelatedID)
}

func TestExchangeCreate_EmptyMessage(t *testing.T) {
	env := newExchangeEnv(t)

	for _, message := range []string{"", "   ", "\t\n"} {
		_, err := env.exchanges.Create(context.Background(), env.requester, model.CreateExchangeRequest{
			SkillID: env.skill.ID,
			Message: message,
		})
		assert.ErrorIs(t, err, ErrMessageRequired, "message %q", message)
	}
	assert.Zero(t, env.requestCount(t))
}

func TestExchangeCreate_SkillNotFound(t *testing.T) {
	env := newExchangeEnv(t)

	_, err := env.exchanges.Create(context.Background(), env.requester, model.CreateExchangeRequest{
		SkillID: env.skill.ID + 1000,
		Message: "hi",
	})
	assert.ErrorIs(t, err, ErrSkillNotFound)
}

func TestExchangeCreate_SelfRequest(t *testing.T) {
	env := newExchangeEnv(t)

	before := env.requestCount(t)
	_, err := env.exchanges.Create(context.Background(), env.owner, model.CreateExchangeRequest{
		SkillID: env.skill.ID,
		Message: "teaching myself",
	})
	assert.ErrorIs(t, err, ErrSelfRequest)
	assert.Equal(t, before, env.requestCount(t), "no record persisted")
}

func TestExchangeTransition_OwnerAccepts(t *testing.T) {
	env := newExchangeEnv(t)
	ctx := context.Background()

	created := env.create(t)

	resp, err := env.exchanges.Transition(ctx, env.owner, created.ID, model.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, resp.Status)

	// The requester got told about the decision.
	list, err := env.notifications.List(ctx, env.requester, 0, 100)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Exchange Request Accepted", list[0].Title)
	assert.Equal(t, "Your exchange request for 'Python Programming' has been accepted", list[0].Message)
	assert.Equal(t, model.NotificationTypeExchangeUpdate, list[0].Type)
}

func TestExchangeTransition_OwnerRejects(t *testing.T) {
	env := newExchangeEnv(t)
	ctx := context.Background()

	created := env.create(t)

	resp, err := env.exchanges.Transition(ctx, env.owner, created.ID, model.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, resp.Status)

	list, err := env.notifications.List(ctx, env.requester, 0, 100)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Exchange Request Rejected", list[0].Title)
}

func TestExchangeTransition_RequesterCancels(t *testing.T) {
	env := newExchangeEnv(t)
	ctx := context.Background()

	created := env.create(t)

	resp, err := env.exchanges.Cancel(ctx, env.requester, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, resp.Status)

	// Cancellation is silent and preserves the record.
	list, err := env.notifications.List(ctx, env.owner, 0, 100)
	require.NoError(t, err)
	assert.Len(t, list, 1, "only the creation notification exists")
	assert.Equal(t, int64(1), env.requestCount(t))
}

func TestExchangeTransition_Authorization(t *testing.T) {
	tests := []struct {
		name   string
		target model.ExchangeStatus
		actor  func(*exchangeEnv) *model.User
	}{
		{"requester cannot accept", model.StatusAccepted, func(e *exchangeEnv) *model.User { return e.requester }},
		{"requester cannot reject", model.StatusRejected, func(e *exchangeEnv) *model.User { return e.requester }},
		{"owner cannot cancel", model.StatusCancelled, func(e *exchangeEnv) *model.User { return e.owner }},
		{"outsider cannot accept", model.StatusAccepted, func(e *exchangeEnv) *model.User { return e.outsider }},
		{"outsider cannot cancel", model.StatusCancelled, func(e *exchangeEnv) *model.User { return e.outsider }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newExchangeEnv(t)
			ctx := context.Background()
			created := env.create(t)

			_, err := env.exchanges.Transition(ctx, tt.actor(env), created.ID, tt.target)
			assert.ErrorIs(t, err, ErrForbidden)

			// A failed authorization check leaves the record untouched.
			got, err := env.exchanges.Get(ctx, env.requester, created.ID)
			require.NoError(t, err)
			assert.Equal(t, model.StatusPending, got.Status)
			assert.True(t, created.UpdatedAt.Equal(got.UpdatedAt), "updated_at must not move")
		})
	}
}

func TestExchangeTransition_InvalidTargets(t *testing.T) {
	env := newExchangeEnv(t)
	ctx := context.Background()
	created := env.create(t)

	// Unknown labels and edges not reachable from pending.
	for _, target := range []model.ExchangeStatus{"approved", "", "pending", "completed"} {
		_, err := env.exchanges.Transition(ctx, env.owner, created.ID, target)
		assert.ErrorIs(t, err, ErrInvalidTransition, "target %q", target)
	}

	got, err := env.exchanges.Get(ctx, env.owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
}

func TestExchangeTransition_OneShot(t *testing.T) {
	env := newExchangeEnv(t)
	ctx := context.Background()
	created := env.create(t)

	accepted, err := env.exchanges.Transition(ctx, env.owner, created.ID, model.StatusAccepted)
	require.NoError(t, err)

	// Re-applying the same edge fails rather than silently succeeding,
	// and the timestamp stays put.
	_, err = env.exchanges.Transition(ctx, env.owner, created.ID, model.StatusAccepted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, err := env.exchanges.Get(ctx, env.owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, got.Status)
	assert.True(t, accepted.UpdatedAt.Equal(got.UpdatedAt), "updated_at must not move on a failed re-apply")
}

func TestExchangeTransition_Completed(t *testing.T) {
	env := newExchangeEnv(t)
	ctx := context.Background()
	created := env.create(t)

	_, err := env.exchanges.Transition(ctx, env.owner, created.ID, model.StatusAccepted)
	require.NoError(t, err)

	_, err = env.exchanges.Transition(ctx, env.outsider, created.ID, model.StatusCompleted)
	assert.ErrorIs(t, err, ErrForbidden)

	resp, err := env.exchanges.Transition(ctx, env.requester, created.ID, model.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, resp.Status)

	// The counter-party of the acting user hears about it.
	list, err := env.notifications.List(ctx, env.owner, 0, 100)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, "Exchange Request Completed", list[0].Title)
}

func TestExchangeCreate_NotificationFailureIsolated(t *testing.T) {
	env := newExchangeEnv(t)
	ctx := context.Background()

	broken := NewExchangeService(
		repository.NewExchangeRepository(env.db),
		repository.NewSkillRepository(env.db),
		failingNotifier{},
	)

	resp, err := broken.Create(ctx, env.requester, model.CreateExchangeRequest{
		SkillID: env.skill.ID,
		Message: "hi",
	})
	require.NoError(t, err, "create must not fail when the notification store is down")

	// The request committed before the notification attempt: a fresh
	// read sees it.
	got, err := env.exchanges.Get(ctx, env.requester, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
}

func TestExchangeTransition_NotificationFailureIsolated(t *testing.T) {
	env := newExchangeEnv(t)
	ctx := context.Background()
	created := env.create(t)

	broken := NewExchangeService(
		repository.NewExchangeRepository(env.db),
		repository.NewSkillRepository(env.db),
		failingNotifier{},
	)

	resp, err := broken.Transition(ctx, env.owner, created.ID, model.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, resp.Status)

	got, err := env.exchanges.Get(ctx, env.owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, got.Status, "status change is durable despite the failed notification")
}

func TestExchangeGet_ParticipantsOnly(t *testing.T) {
	env := newExchangeEnv(t)
	ctx := context.Background()
	created := env.create(t)

	for _, u := range []*model.User{env.requester, env.owner} {
		_, err := env.exchanges.Get(ctx, u, created.ID)
		assert.NoError(t, err)
	}

	_, err := env.exchanges.Get(ctx, env.outsider, created.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.exchanges.Get(ctx, env.requester, created.ID+1000)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

// Full walkthrough: B requests A's skill, A accepts, B's late cancel
// bounces.
func TestExchangeWorkflow(t *testing.T) {
	env := newExchangeEnv(t)
	ctx := context.Background()

	created, err := env.exchanges.Create(ctx, env.requester, model.CreateExchangeRequest{
		SkillID: env.skill.ID,
		Message: "hi",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, created.Status)
	assert.Equal(t, env.owner.ID, created.SkillOwnerID)
	assert.Equal(t, env.requester.ID, created.RequesterID)

	accepted, err := env.exchanges.Transition(ctx, env.owner, created.ID, model.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, accepted.Status)

	list, err := env.notifications.List(ctx, env.requester, 0, 100)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Exchange Request Accepted", list[0].Title)

	_, err = env.exchanges.Cancel(ctx, env.requester, created.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition, "cancel after acceptance is no longer available")
}

func TestExchangeList(t *testing.T) {
	env := newExchangeEnv(t)
	ctx := context.Background()
	created := env.create(t)

	for _, u := range []*model.User{env.requester, env.owner} {
		list, err := env.exchanges.List(ctx, u, 0, 100)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, created.ID, list[0].ID)
		assert.Equal(t, "Python Programming", list[0].SkillTitle)
	}

	list, err := env.exchanges.List(ctx, env.outsider, 0, 100)
	require.NoError(t, err)
	assert.Empty(t, list)
}
