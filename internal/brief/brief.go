// Package brief computes the daily training brief: whether today is a
// training or rest day, what the rotation says comes next, a "beat this"
// target from recent history and any personal records set today.
package brief

import (
	"time"

	"github.com/nhanzalone1/netgains/internal/calendar"
	"github.com/nhanzalone1/netgains/internal/models"
)

// BriefVersion is bumped whenever the Brief shape changes so that clients
// and caches can discard payloads produced by an older shape.
const BriefVersion = 3

// Mode is the display state of a brief.
type Mode string

const (
	ModePreWorkout  Mode = "pre_workout"
	ModePostWorkout Mode = "post_workout"
	ModeRestDay     Mode = "rest_day"
)

// Status is the outcome of a brief request.
type Status string

const (
	StatusNotOnboarded    Status = "not_onboarded"
	StatusGenerated       Status = "generated"
	StatusUnauthenticated Status = "unauthenticated"
)

// PR is a personal record set today.
type PR struct {
	Exercise string  `json:"exercise"`
	Weight   float64 `json:"weight"`
	Reps     int     `json:"reps"`
}

// Nutrition is passed through from the store without inference.
type Nutrition struct {
	Goals    *models.NutritionTotals `json:"goals,omitempty"`
	Consumed models.NutritionTotals  `json:"consumed"`
}

// Styled holds optional phrasing from the text generator. It never replaces
// the deterministic Focus and Target fields.
type Styled struct {
	Focus  string `json:"focus"`
	Target string `json:"target"`
}

// Brief is the computed summary for one user and one calendar day.
type Brief struct {
	Mode        Mode      `json:"mode"`
	Focus       string    `json:"focus"`
	Target      string    `json:"target,omitempty"`
	Achievement string    `json:"achievement,omitempty"`
	PRs         []PR      `json:"prs,omitempty"`
	Motivation  string    `json:"motivation,omitempty"`
	Nutrition   Nutrition `json:"nutrition"`
	Styled      *Styled   `json:"styled,omitempty"`
}

// Response is the envelope returned for every brief request.
type Response struct {
	Status      Status       `json:"status"`
	Version     int          `json:"version,omitempty"`
	Date        calendar.Day `json:"date,omitzero"`
	Brief       *Brief       `json:"brief,omitempty"`
	GeneratedAt *time.Time   `json:"generatedAt,omitempty"`
	Degraded    []string     `json:"degraded,omitempty"`
}

// Cacheable reports whether r is a complete generated brief of the current version.
func (r *Response) Cacheable() bool {
	return r != nil && r.Status == StatusGenerated && r.Version == BriefVersion && len(r.Degraded) == 0
}
