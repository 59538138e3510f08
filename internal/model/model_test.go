package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestPartitionSprintsDisjoint(t *testing.T) {
	var sprints []Sprint
	for i, flags := range [][2]bool{{true, true}, {true, false}, {false, true}, {false, false}, {true, true}} {
		s := Sprint{ID: string(rune('a' + i))}
		s.IsActive, s.IsAcceptingApplications = flags[0], flags[1]
		sprints = append(sprints, s)
	}

	open, upcoming := PartitionSprints(sprints)

	seen := map[string]bool{}
	for _, s := range open {
		assert.True(t, s.IsActive)
		seen[s.ID] = true
	}
	for _, s := range upcoming {
		assert.False(t, seen[s.ID], "sprint %s in both sets", s.ID)
		seen[s.ID] = true
	}
	active := 0
	for _, s := range sprints {
		if s.IsActive {
			active++
			assert.True(t, seen[s.ID])
		} else {
			assert.False(t, seen[s.ID])
		}
	}
	assert.Len(t, seen, active)
	assert.Equal(t, []string{"a", "e"}, []string{open[0].ID, open[1].ID})
}

func TestPartitionEvents(t *testing.T) {
	events := []Event{
		{ID: "1", EventFields: EventFields{IsActive: true, IsAcceptingRegistrations: true}},
		{ID: "2", EventFields: EventFields{IsActive: true}},
		{ID: "3", EventFields: EventFields{IsAcceptingRegistrations: true}},
	}
	open, upcoming := PartitionEvents(events)
	require.Len(t, open, 1)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "1", open[0].ID)
	assert.Equal(t, "2", upcoming[0].ID)
}

func TestCurrentPrice(t *testing.T) {
	tests := []struct {
		name  string
		p     Pricing
		want  float64
		found bool
	}{
		{"early bird wins", Pricing{IsPaid: true, TicketPrice: ptr(500.0), EarlyBirdPrice: ptr(300.0), EarlyBirdSeats: ptr(10)}, 300, true},
		{"early bird cleared", Pricing{IsPaid: true, TicketPrice: ptr(500.0), EarlyBirdPrice: ptr(0.0), EarlyBirdSeats: ptr(10)}, 500, true},
		{"no early bird", Pricing{IsPaid: true, TicketPrice: ptr(500.0)}, 500, true},
		{"free", Pricing{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.p.CurrentPrice()
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasEarlyBird(t *testing.T) {
	assert.True(t, Pricing{TicketPrice: ptr(500.0), EarlyBirdPrice: ptr(300.0)}.HasEarlyBird())
	assert.False(t, Pricing{TicketPrice: ptr(500.0), EarlyBirdPrice: ptr(600.0)}.HasEarlyBird())
	assert.False(t, Pricing{TicketPrice: ptr(500.0)}.HasEarlyBird())
}

func TestDateJSON(t *testing.T) {
	d, err := ParseDate("2025-03-14")
	require.NoError(t, err)

	b, err := json.Marshal(struct {
		D Date  `json:"d"`
		P *Date `json:"p"`
	}{D: d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2025-03-14","p":null}`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-03-14T10:00:00Z"`), &back))
	assert.Equal(t, "2025-03-14", back.String())

	_, err = ParseDate("14/03/2025")
	assert.Error(t, err)
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "2025-01-02", d.String())
	require.NoError(t, d.Scan([]byte("2024-12-31")))
	assert.Equal(t, "2024-12-31", d.String())
	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
}

func TestSprintPatchPartial(t *testing.T) {
	f := NewSprintFields()
	f.Title = "Design Sprint 1"
	f.SprintType = SprintDesign
	f.DurationDays = 14
	f.Eligibility = ptr("students")

	var p SprintPatch
	require.NoError(t, json.Unmarshal([]byte(`{"duration_days":21,"eligibility":null}`), &p))
	p.Apply(&f)

	assert.Equal(t, "Design Sprint 1", f.Title)
	assert.Equal(t, 21, f.DurationDays)
	assert.Nil(t, f.Eligibility)
	assert.True(t, f.IsActive)
}

func TestSprintPatchMarshalOmitsUnset(t *testing.T) {
	b, err := json.Marshal(SprintPatch{IsAcceptingApplications: SetTo(false)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_accepting_applications":false}`, string(b))
}

func TestEventPatchRoundTrip(t *testing.T) {
	f := NewEventFields()
	f.Title = "Meetup"
	f.EventType = EventOffline
	f.EventDate = NewDate(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	f.Location = ptr("Hall A")

	b, err := json.Marshal(PatchFromEventFields(f))
	require.NoError(t, err)

	var p EventPatch
	require.NoError(t, json.Unmarshal(b, &p))
	var got EventFields
	p.Apply(&got)
	assert.Equal(t, f, got)
}

func TestStatusValid(t *testing.T) {
	assert.True(t, ApplicationAccepted.Valid())
	assert.False(t, ApplicationStatus("archived").Valid())
	assert.True(t, RegistrationCancelled.Valid())
	assert.False(t, RegistrationStatus("").Valid())
}

func TestProfileUpdateApply(t *testing.T) {
	p := Profile{UserID: "u1", FullName: ptr("Old"), Phone: ptr("123")}
	ProfileUpdate{FullName: ptr("New")}.Apply(&p)
	assert.Equal(t, "New", *p.FullName)
	assert.Equal(t, "123", *p.Phone)
	assert.Equal(t, ProfileSummary{FullName: ptr("New"), Phone: ptr("123")}, p.Summary())
}

func TestNewApplication(t *testing.T) {
	a := NewApplication("a1", "u1", "s1", ApplicationAnswers{Motivation: "m", Experience: "e", Availability: "weekends"})
	assert.Equal(t, ApplicationPending, a.Status)
	assert.Equal(t, "weekends", *a.Availability)
	assert.Nil(t, a.PortfolioLink)
}
