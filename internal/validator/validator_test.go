package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithtechno/techno-hub/internal/apperr"
	"github.com/codewithtechno/techno-hub/internal/model"
)

func TestSprintFields(t *testing.T) {
	v := New()

	f := model.NewSprintFields()
	err := v.Validate(f)
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "title")
	assert.Contains(t, ve.Fields, "sprint_type")
	assert.Contains(t, ve.Fields, "duration_days")

	f.Title, f.SprintType, f.DurationDays = "Design Sprint 1", model.SprintDesign, 14
	assert.NoError(t, v.Validate(f))

	f.SprintType = "marketing"
	require.ErrorAs(t, v.Validate(f), &ve)
	assert.Equal(t, "must be one of: design, development", ve.Fields["sprint_type"])
}

func TestSprintDateOrder(t *testing.T) {
	v := New()
	f := model.NewSprintFields()
	f.Title, f.SprintType, f.DurationDays = "S", model.SprintDevelopment, 7
	start, _ := model.ParseDate("2025-05-10")
	end, _ := model.ParseDate("2025-05-01")
	f.StartDate, f.EndDate = &start, &end

	var ve *apperr.ValidationError
	require.ErrorAs(t, v.Validate(f), &ve)
	assert.Equal(t, "must not be before start_date", ve.Fields["end_date"])
	assert.ErrorIs(t, v.Validate(f), apperr.ErrValidation)
}

func TestApplicationAnswers(t *testing.T) {
	v := New()
	link := "not a url"
	err := v.Validate(model.ApplicationAnswers{Motivation: "m", Experience: "e", PortfolioLink: &link})

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "is required", ve.Fields["availability"])
	assert.Equal(t, "must be a valid URL", ve.Fields["portfolio_link"])
}

func TestNotBlank(t *testing.T) {
	v := New()
	type input struct {
		Name string `json:"name" validate:"notblank"`
	}
	assert.Error(t, v.Validate(input{Name: "   "}))
	assert.NoError(t, v.Validate(input{Name: "Ada"}))
}
