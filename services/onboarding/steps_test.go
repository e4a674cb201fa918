package onboarding

import (
	"errors"
	"testing"

	"collabhub/models"
)

func TestStepMachineAdvanceBlocksOnValidationFailure(t *testing.T) {
	m := NewStepMachine([]string{"a", "b", "c"}, map[string]Validator[int]{
		"a": func(v int) string {
			if v < 1 {
				return "too small"
			}
			return ""
		},
	})

	err := m.Advance(0)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Message != "too small" || ve.Step != "a" {
		t.Fatalf("expected validation error for step a, got %v", err)
	}
	if m.Index() != 0 {
		t.Fatalf("index moved on failure: %d", m.Index())
	}

	if err := m.Advance(1); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := m.Advance(0); err != nil {
		t.Fatalf("step without validator should pass: %v", err)
	}
	if !m.IsTerminal() {
		t.Fatalf("expected terminal at index %d", m.Index())
	}
	if err := m.Advance(1); !errors.Is(err, ErrAtTerminalStep) {
		t.Fatalf("expected ErrAtTerminalStep, got %v", err)
	}
}

func TestStepMachineRetreatAndRestore(t *testing.T) {
	m := NewStepMachine([]string{"a", "b"}, map[string]Validator[int]{})
	if m.Retreat() {
		t.Fatal("retreat at index 0 should be a no-op")
	}
	if err := m.Restore(1); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !m.Retreat() || m.Index() != 0 {
		t.Fatalf("expected retreat to index 0, got %d", m.Index())
	}
	if err := m.Restore(2); !errors.Is(err, ErrStepOutOfRange) {
		t.Fatalf("expected ErrStepOutOfRange, got %v", err)
	}
}

func TestStepMachineFirstInvalidChecksEarlierSteps(t *testing.T) {
	fail := func(int) string { return "broken" }
	m := NewStepMachine([]string{"a", "b", "c"}, map[string]Validator[int]{"b": fail})
	if ve := m.FirstInvalid(0); ve != nil {
		t.Fatalf("step b is ahead of index 0, got %v", ve)
	}
	_ = m.Restore(2)
	ve := m.FirstInvalid(0)
	if ve == nil || ve.Step != "b" {
		t.Fatalf("expected step b to be reported, got %v", ve)
	}
}

func TestSequencesAndCurrentStep(t *testing.T) {
	if NewCreatorMachine().Len() != 7 || NewBrandMachine().Len() != 6 {
		t.Fatal("unexpected sequence lengths")
	}
	s := &models.WizardSession{Step: 3}
	if CurrentStep(s) != StepPlatformDetails {
		t.Fatalf("creator step 3 = %s", CurrentStep(s))
	}
	s.Role = models.RoleBrand
	if CurrentStep(s) != StepBrandSocialLinks {
		t.Fatalf("brand step 3 = %s", CurrentStep(s))
	}
	s.Step = 5
	if !IsTerminal(s) {
		t.Fatal("brand step 5 should be terminal")
	}
}
