package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/parkpulse/survey-server/validation"
)

type fakeSubmitter struct {
	calls int
	last  validation.SurveyInput
	err   error
}

func (f *fakeSubmitter) Submit(_ context.Context, _ string, in validation.SurveyInput) error {
	f.calls++
	f.last = in
	return f.err
}

func answerAll(c *Controller) {
	c.Update(func(in *validation.SurveyInput) {
		in.TravelerType = "business"
		in.ParkingPreference = "shuttle_service"
		in.UsageFrequency = "more_than_5"
		in.ExitMethod = "cashier"
		in.ExitTime = "5_9_minutes"
		eff := true
		in.CashierEfficient = &eff
		in.CleanlinessSurface = 4
		in.CleanlinessStairs = 3
		in.CleanlinessElevators = 4
		in.OverallExperience = 4
		in.Comments = "smooth"
		in.FirstName = "Alex"
	})
}

func TestContinueBlockedUntilStepValid(t *testing.T) {
	c := NewController("atl-select", NewMemoryStore(), &fakeSubmitter{})

	errs := c.Continue()
	if errs == nil {
		t.Fatal("expected step 1 to be gated on traveler_type")
	}
	if c.Step() != 1 {
		t.Fatalf("step advanced on failed validation: %d", c.Step())
	}

	c.Update(func(in *validation.SurveyInput) { in.TravelerType = "leisure" })
	if errs := c.Continue(); errs != nil {
		t.Fatalf("expected advance, got %v", errs)
	}
	if c.Step() != 2 {
		t.Fatalf("expected step 2, got %d", c.Step())
	}
}

func TestBackAlwaysSucceedsAndClamps(t *testing.T) {
	c := NewController("atl-select", NewMemoryStore(), &fakeSubmitter{})

	c.Back()
	if c.Step() != 1 {
		t.Fatalf("Back below step 1 must clamp, got %d", c.Step())
	}

	c.Update(func(in *validation.SurveyInput) { in.TravelerType = "leisure" })
	c.Continue()
	c.Back() // step 2 -> 1 with step 2 unanswered
	if c.Step() != 1 {
		t.Fatalf("Back must bypass validation, got step %d", c.Step())
	}
}

func TestStepsSixAndNineHaveNoGate(t *testing.T) {
	c := NewController("atl-select", NewMemoryStore(), &fakeSubmitter{})
	for _, step := range []int{6, 9} {
		c.step = step
		if errs := c.Continue(); errs != nil {
			t.Fatalf("step %d must advance without answers, got %v", step, errs)
		}
		if c.Step() != step+1 {
			t.Fatalf("step %d did not advance, now at %d", step, c.Step())
		}
	}
}

func TestContinueClampsAtFinalStep(t *testing.T) {
	c := NewController("atl-select", NewMemoryStore(), &fakeSubmitter{})
	answerAll(c)
	c.step = TotalSteps
	if errs := c.Continue(); errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if c.Step() != TotalSteps {
		t.Fatalf("step must clamp at %d, got %d", TotalSteps, c.Step())
	}
}

func TestDraftRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	c := NewController("atl-select", store, &fakeSubmitter{})
	c.Update(func(in *validation.SurveyInput) {
		in.TravelerType = "leisure"
		in.ParkingPreference = "self_park"
		in.Comments = "halfway there"
	})

	// A fresh controller for the same slug restores the saved answers.
	restored := NewController("atl-select", store, &fakeSubmitter{})
	got := restored.Input()
	if got.TravelerType != "leisure" || got.ParkingPreference != "self_park" || got.Comments != "halfway there" {
		t.Fatalf("draft not restored: %+v", got)
	}

	// A different slug starts blank.
	other := NewController("bos-central", store, &fakeSubmitter{})
	if other.Input() != (validation.SurveyInput{}) {
		t.Fatalf("draft leaked across slugs: %+v", other.Input())
	}
}

func TestCorruptDraftIgnored(t *testing.T) {
	store := NewMemoryStore()
	store.Set(DraftKey("atl-select"), []byte("{not json"))

	c := NewController("atl-select", store, &fakeSubmitter{})
	if c.Input() != (validation.SurveyInput{}) {
		t.Fatalf("corrupt draft should be ignored, got %+v", c.Input())
	}
}

func TestSubmitOnlyFromFinalStep(t *testing.T) {
	c := NewController("atl-select", NewMemoryStore(), &fakeSubmitter{})
	answerAll(c)
	if _, err := c.Submit(context.Background()); !errors.Is(err, ErrNotFinalStep) {
		t.Fatalf("expected ErrNotFinalStep, got %v", err)
	}
}

func TestSubmitClearsDraft(t *testing.T) {
	store := NewMemoryStore()
	sub := &fakeSubmitter{}
	c := NewController("atl-select", store, sub)
	answerAll(c)
	c.step = TotalSteps

	errs, err := c.Submit(context.Background())
	if errs != nil || err != nil {
		t.Fatalf("submit failed: %v %v", errs, err)
	}
	if sub.calls != 1 {
		t.Fatalf("expected exactly one submission, got %d", sub.calls)
	}
	if sub.last.FirstName != "Alex" {
		t.Fatalf("submitted input mismatch: %+v", sub.last)
	}

	if data, _ := store.Get(DraftKey("atl-select")); data != nil {
		t.Fatal("draft must be cleared after successful submission")
	}
	if NewController("atl-select", store, sub).Input() != (validation.SurveyInput{}) {
		t.Fatal("subsequent visit must start blank")
	}
}

func TestSubmitFailureKeepsDraftAndStep(t *testing.T) {
	store := NewMemoryStore()
	sub := &fakeSubmitter{err: errors.New("store down")}
	c := NewController("atl-select", store, sub)
	answerAll(c)
	c.step = TotalSteps

	errs, err := c.Submit(context.Background())
	if errs != nil {
		t.Fatalf("unexpected field errors: %v", errs)
	}
	if err == nil {
		t.Fatal("expected delivery error")
	}
	if c.Step() != TotalSteps {
		t.Fatalf("failed submit must stay on the final step, got %d", c.Step())
	}
	if data, _ := store.Get(DraftKey("atl-select")); data == nil {
		t.Fatal("draft must survive a failed submission")
	}

	// Retry after the outage succeeds.
	sub.err = nil
	if errs, err := c.Submit(context.Background()); errs != nil || err != nil {
		t.Fatalf("retry failed: %v %v", errs, err)
	}
}

func TestSubmitValidatesFullPayloadBeforeDelivery(t *testing.T) {
	sub := &fakeSubmitter{}
	c := NewController("atl-select", NewMemoryStore(), sub)
	answerAll(c)
	c.Update(func(in *validation.SurveyInput) { in.OverallExperience = 7 })
	c.step = TotalSteps

	errs, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if errs == nil || errs[validation.FieldOverallExperience] == "" {
		t.Fatalf("expected overall_experience violation, got %v", errs)
	}
	if sub.calls != 0 {
		t.Fatal("invalid payload must never reach the network")
	}
}

func TestDraftSerializationOmitsUnanswered(t *testing.T) {
	store := NewMemoryStore()
	c := NewController("atl-select", store, &fakeSubmitter{})
	c.Update(func(in *validation.SurveyInput) { in.TravelerType = "leisure" })

	data, _ := store.Get(DraftKey("atl-select"))
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("draft is not valid JSON: %v", err)
	}
	if _, ok := raw["traveler_type"]; !ok {
		t.Fatalf("answered field missing from draft: %s", data)
	}
	if _, ok := raw["exit_method"]; ok {
		t.Fatalf("unanswered field serialized into draft: %s", data)
	}
}
