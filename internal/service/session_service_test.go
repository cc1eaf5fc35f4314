package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/fitgen/internal/domain"
	"alcyxob/fitgen/internal/logger"
	"alcyxob/fitgen/internal/planstore"
	"alcyxob/fitgen/internal/repository/memory"
)

type sessionFixture struct {
	svc      SessionService
	sessions *memory.Sessions
	plans    *memory.Plans
	clock    time.Time
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		sessions: memory.NewSessions(),
		plans:    memory.NewPlans(),
		clock:    time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	store := planstore.New(f.plans, nil, time.Minute, logger.NewNop())
	svc := NewSessionService(f.sessions, store, logger.NewNop()).(*sessionService)
	svc.now = func() time.Time {
		f.clock = f.clock.Add(time.Minute)
		return f.clock
	}
	f.svc = svc
	return f
}

func (f *sessionFixture) addPlan(t *testing.T, userID string) primitive.ObjectID {
	t.Helper()
	id, err := f.plans.Create(t.Context(), &domain.WorkoutPlan{UserID: userID, PromptVersion: "v1", Fingerprint: "fp"})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func intPtr(v int) *int { return &v }

func TestStart_ReusesOpenSession(t *testing.T) {
	f := newSessionFixture(t)
	ctx := t.Context()
	planID := f.addPlan(t, "u1")

	first, err := f.svc.Start(ctx, "u1", planID)
	if err != nil {
		t.Fatal(err)
	}
	if !first.Open() {
		t.Fatalf("started session is not open: %+v", first)
	}
	second, err := f.svc.Start(ctx, "u1", planID)
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Errorf("second start opened %s, want %s", second.ID.Hex(), first.ID.Hex())
	}
}

func TestComplete_PatchesOpenSession(t *testing.T) {
	f := newSessionFixture(t)
	ctx := t.Context()
	planID := f.addPlan(t, "u1")

	started, err := f.svc.Start(ctx, "u1", planID)
	if err != nil {
		t.Fatal(err)
	}
	done, err := f.svc.Complete(ctx, "u1", planID, CompleteInput{Feedback: "tough", Rating: intPtr(4)})
	if err != nil {
		t.Fatal(err)
	}
	if done.ID != started.ID {
		t.Errorf("completed %s, want the open session %s", done.ID.Hex(), started.ID.Hex())
	}
	if done.CompletedAt == nil || done.Feedback != "tough" || done.Rating == nil || *done.Rating != 4 {
		t.Errorf("completion not recorded: %+v", done)
	}
}

func TestComplete_WithoutStartCreatesSession(t *testing.T) {
	f := newSessionFixture(t)
	planID := f.addPlan(t, "u1")

	done, err := f.svc.Complete(t.Context(), "u1", planID, CompleteInput{})
	if err != nil {
		t.Fatal(err)
	}
	if done.StartedAt != nil || done.CompletedAt == nil {
		t.Errorf("session = %+v, want completed without start", done)
	}
}

func TestComplete_Validation(t *testing.T) {
	f := newSessionFixture(t)
	planID := f.addPlan(t, "u1")

	tests := []struct {
		name string
		in   CompleteInput
		want error
	}{
		{"feedback at limit", CompleteInput{Feedback: strings.Repeat("é", domain.MaxFeedbackLength)}, nil},
		{"feedback too long", CompleteInput{Feedback: strings.Repeat("a", domain.MaxFeedbackLength+1)}, ErrFeedbackTooLong},
		{"rating zero", CompleteInput{Rating: intPtr(0)}, ErrInvalidRating},
		{"rating six", CompleteInput{Rating: intPtr(6)}, ErrInvalidRating},
		{"rating five", CompleteInput{Rating: intPtr(5)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Complete(t.Context(), "u1", planID, tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSessions_Ownership(t *testing.T) {
	f := newSessionFixture(t)
	ctx := t.Context()
	planID := f.addPlan(t, "owner")

	if _, err := f.svc.Start(ctx, "intruder", planID); !errors.Is(err, ErrPlanAccessDenied) {
		t.Errorf("Start err = %v, want %v", err, ErrPlanAccessDenied)
	}
	if _, err := f.svc.Complete(ctx, "intruder", planID, CompleteInput{}); !errors.Is(err, ErrPlanAccessDenied) {
		t.Errorf("Complete err = %v, want %v", err, ErrPlanAccessDenied)
	}
	if _, err := f.svc.Start(ctx, "owner", primitive.NewObjectID()); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("Start missing err = %v, want %v", err, ErrPlanNotFound)
	}
}

func TestListCompleted_NewestFirstAndUnique(t *testing.T) {
	f := newSessionFixture(t)
	ctx := t.Context()
	a := f.addPlan(t, "u1")
	b := f.addPlan(t, "u1")
	c := f.addPlan(t, "u1")
	f.addPlan(t, "u1") // never completed

	for _, id := range []primitive.ObjectID{a, b, a, c} {
		if _, err := f.svc.Complete(ctx, "u1", id, CompleteInput{}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := f.svc.ListCompleted(ctx, "u1", 0)
	if err != nil {
		t.Fatal(err)
	}
	var ids []primitive.ObjectID
	for _, w := range got {
		ids = append(ids, w.Plan.ID)
	}
	want := []primitive.ObjectID{c, a, b}
	if len(ids) != len(want) {
		t.Fatalf("listed %d plans, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("position %d = %s, want %s", i, ids[i].Hex(), want[i].Hex())
		}
	}

	limited, err := f.svc.ListCompleted(ctx, "u1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("limited list = %d, want 2", len(limited))
	}

	other, err := f.svc.ListCompleted(ctx, "u2", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("other user sees %d plans", len(other))
	}
}
