package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Slot struct {
	Start string `json:"start_time" binding:"required,hhmm"`
}

type Base struct {
	Email string `json:"email" binding:"required,email"`
}

type Request struct {
	Base
	Date  string `json:"date" binding:"required,ymd"`
	Slots []Slot `json:"time_slots" binding:"dive"`
}

func TestIsDate_ShapeOnly(t *testing.T) {
	assert.True(t, IsDate("2024-06-01"))
	assert.True(t, IsDate("2024-13-45"))
	assert.False(t, IsDate("2024-6-1"))
	assert.False(t, IsDate("2024-06-01T00:00"))
}

func TestIsClock(t *testing.T) {
	assert.True(t, IsClock("00:00"))
	assert.True(t, IsClock("23:59"))
	assert.False(t, IsClock("24:00"))
	assert.False(t, IsClock("9:00"))
}

func TestStruct_Details(t *testing.T) {
	err := Struct(&Request{
		Base:  Base{Email: "nope"},
		Date:  "01/06/2024",
		Slots: []Slot{{Start: "25:00"}},
	})
	require.Error(t, err)

	rules := map[string]string{}
	for _, d := range Details(err) {
		rules[d.Field] = d.Rule
	}
	assert.Equal(t, map[string]string{
		"email":                    "email",
		"date":                     "ymd",
		"time_slots[0].start_time": "hhmm",
	}, rules)
}

func TestDetails_NonValidatorError(t *testing.T) {
	assert.Nil(t, Details(errors.New("boom")))
}
