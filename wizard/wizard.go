// Package wizard implements the ten-step survey flow: per-step validation
// gates, draft persistence keyed by location slug, and final submission.
package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/parkpulse/survey-server/validation"
)

// TotalSteps is the number of wizard steps. Step numbering is 1-based.
const TotalSteps = 10

// stepFields maps each step to the fields its Continue gate validates.
// Steps 6 (cashier question) and 9 (comments) have no gate: Continue always
// advances even when the visitor made no selection.
var stepFields = map[int][]string{
	1:  {validation.FieldTravelerType},
	2:  {validation.FieldParkingPreference},
	3:  {validation.FieldUsageFrequency},
	4:  {validation.FieldExitMethod},
	5:  {validation.FieldExitTime},
	6:  {},
	7:  {validation.FieldCleanlinessSurface, validation.FieldCleanlinessStairs, validation.FieldCleanlinessElevators},
	8:  {validation.FieldOverallExperience},
	9:  {},
	10: {validation.FieldFirstName, validation.FieldPhone, validation.FieldEmail},
}

// Submitter delivers a completed answer set for a location. The HTTP
// implementation lives in client.go; tests plug in fakes.
type Submitter interface {
	Submit(ctx context.Context, slug string, in validation.SurveyInput) error
}

// ErrNotFinalStep is returned when Submit is called before step 10.
var ErrNotFinalStep = errors.New("wizard: submit is only allowed on the final step")

// Controller walks one visitor through the survey for one location.
// It is not safe for concurrent use; each session owns its controller.
type Controller struct {
	slug      string
	step      int
	input     validation.SurveyInput
	store     DraftStore
	submitter Submitter
}

// NewController starts a wizard session for slug. Any draft previously saved
// for the slug is merged into the answer set field by field, so restored
// answers win over zero defaults.
func NewController(slug string, store DraftStore, submitter Submitter) *Controller {
	c := &Controller{
		slug:      slug,
		step:      1,
		store:     store,
		submitter: submitter,
	}
	c.restoreDraft()
	return c
}

// Step reports the current step, in [1, TotalSteps].
func (c *Controller) Step() int { return c.step }

// Input returns a copy of the current answer set.
func (c *Controller) Input() validation.SurveyInput { return c.input }

// StepFields lists the fields gated by the given step.
func StepFields(step int) []string {
	return stepFields[step]
}

// Update mutates the answer set and saves the whole partial draft. Every
// answer change goes through here so the draft never lags the visitor.
func (c *Controller) Update(mutate func(*validation.SurveyInput)) {
	mutate(&c.input)
	c.saveDraft()
}

// Continue validates the current step's fields. On success the step advances
// by one, clamped to TotalSteps, and nil is returned. On failure the step
// stays put and the violations come back keyed by field.
func (c *Controller) Continue() validation.FieldErrors {
	if errs := validation.ValidateFields(c.input, stepFields[c.step]...); errs != nil {
		return errs
	}
	if c.step < TotalSteps {
		c.step++
	}
	return nil
}

// Back decrements the step, clamped to 1. It never validates: a visitor can
// always retreat from a half-answered question.
func (c *Controller) Back() {
	if c.step > 1 {
		c.step--
	}
}

// Submit runs the full schema over the answer set and delivers it. Field
// violations abort before any network call. A delivery error leaves the
// wizard on the final step with the draft intact so the visitor can retry;
// success clears the draft.
func (c *Controller) Submit(ctx context.Context) (validation.FieldErrors, error) {
	if c.step != TotalSteps {
		return nil, ErrNotFinalStep
	}
	if errs := validation.Validate(c.input); errs != nil {
		return errs, nil
	}
	if err := c.submitter.Submit(ctx, c.slug, c.input); err != nil {
		return nil, err
	}
	if err := c.store.Clear(DraftKey(c.slug)); err != nil {
		log.Printf("wizard: failed to clear draft for %s: %v", c.slug, err)
	}
	return nil, nil
}

func (c *Controller) saveDraft() {
	data, err := json.Marshal(c.input)
	if err != nil {
		log.Printf("wizard: failed to serialize draft for %s: %v", c.slug, err)
		return
	}
	if err := c.store.Set(DraftKey(c.slug), data); err != nil {
		log.Printf("wizard: failed to save draft for %s: %v", c.slug, err)
	}
}

func (c *Controller) restoreDraft() {
	data, err := c.store.Get(DraftKey(c.slug))
	if err != nil {
		log.Printf("wizard: failed to load draft for %s: %v", c.slug, err)
		return
	}
	if len(data) == 0 {
		return
	}
	var saved validation.SurveyInput
	if err := json.Unmarshal(data, &saved); err != nil {
		log.Printf("wizard: ignoring corrupt draft for %s: %v", c.slug, err)
		return
	}
	mergeInput(&c.input, saved)
}

// mergeInput copies every answered field of src over dst. Unanswered fields
// in src leave dst alone, so a restored draft never erases anything.
func mergeInput(dst *validation.SurveyInput, src validation.SurveyInput) {
	if src.TravelerType != "" {
		dst.TravelerType = src.TravelerType
	}
	if src.ParkingPreference != "" {
		dst.ParkingPreference = src.ParkingPreference
	}
	if src.UsageFrequency != "" {
		dst.UsageFrequency = src.UsageFrequency
	}
	if src.ExitMethod != "" {
		dst.ExitMethod = src.ExitMethod
	}
	if src.ExitTime != "" {
		dst.ExitTime = src.ExitTime
	}
	if src.CashierEfficient != nil {
		dst.CashierEfficient = src.CashierEfficient
	}
	if src.CleanlinessSurface != 0 {
		dst.CleanlinessSurface = src.CleanlinessSurface
	}
	if src.CleanlinessStairs != 0 {
		dst.CleanlinessStairs = src.CleanlinessStairs
	}
	if src.CleanlinessElevators != 0 {
		dst.CleanlinessElevators = src.CleanlinessElevators
	}
	if src.OverallExperience != 0 {
		dst.OverallExperience = src.OverallExperience
	}
	if src.Comments != "" {
		dst.Comments = src.Comments
	}
	if src.FirstName != "" {
		dst.FirstName = src.FirstName
	}
	if src.Phone != "" {
		dst.Phone = src.Phone
	}
	if src.Email != "" {
		dst.Email = src.Email
	}
}
