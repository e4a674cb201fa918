package onboarding

import (
	"fmt"

	"collabhub/models"
)

// StepID names a wizard step.
type StepID string

// Creator sequence.
const (
	StepRoleSelect      StepID = "role_select"
	StepPersonal        StepID = "personal"
	StepPlatformSelect  StepID = "platform_select"
	StepPlatformDetails StepID = "platform_details"
	StepPricing         StepID = "pricing"
	StepProfilePicture  StepID = "profile_picture"
	StepReview          StepID = "review"
)

// Brand sequence.
const (
	StepBrandDetails     StepID = "brand_details"
	StepBrandContact     StepID = "brand_contact"
	StepBrandPlatforms   StepID = "brand_platforms"
	StepBrandSocialLinks StepID = "brand_social_links"
	StepBrandCollabPrefs StepID = "brand_collab_prefs"
	StepBrandReview      StepID = "brand_review"
)

var (
	CreatorSteps = []StepID{StepRoleSelect, StepPersonal, StepPlatformSelect, StepPlatformDetails, StepPricing, StepProfilePicture, StepReview}
	BrandSteps   = []StepID{StepBrandDetails, StepBrandContact, StepBrandPlatforms, StepBrandSocialLinks, StepBrandCollabPrefs, StepBrandReview}
)

// Validator returns "" when the form passes, or the message of the first violated rule.
type Validator[F any] func(F) string

// StepMachine walks an ordered list of steps, gating forward moves on the current step's validator.
// Steps without a validator always pass.
type StepMachine[S comparable, F any] struct {
	steps      []S
	validators map[S]Validator[F]
	index      int
}

func NewStepMachine[S comparable, F any](steps []S, validators map[S]Validator[F]) *StepMachine[S, F] {
	return &StepMachine[S, F]{steps: steps, validators: validators}
}

func (m *StepMachine[S, F]) Steps() []S { return m.steps }
func (m *StepMachine[S, F]) Len() int   { return len(m.steps) }
func (m *StepMachine[S, F]) Index() int { return m.index }
func (m *StepMachine[S, F]) Current() S { return m.steps[m.index] }

func (m *StepMachine[S, F]) IsTerminal() bool {
	return m.index == len(m.steps)-1
}

// Restore positions the machine at a previously saved index.
func (m *StepMachine[S, F]) Restore(index int) error {
	if index < 0 || index >= len(m.steps) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrStepOutOfRange, index, len(m.steps))
	}
	m.index = index
	return nil
}

// ValidateStep runs the validator registered for step.
func (m *StepMachine[S, F]) ValidateStep(step S, form F) string {
	v, ok := m.validators[step]
	if !ok || v == nil {
		return ""
	}
	return v(form)
}

// Validate runs the current step's validator.
func (m *StepMachine[S, F]) Validate(form F) string {
	return m.ValidateStep(m.Current(), form)
}

// Advance moves one step forward when the current step validates. On failure the index is unchanged
// and a *ValidationError carries the message.
func (m *StepMachine[S, F]) Advance(form F) error {
	if m.IsTerminal() {
		return ErrAtTerminalStep
	}
	if msg := m.Validate(form); msg != "" {
		return &ValidationError{Step: fmt.Sprint(m.Current()), Message: msg}
	}
	m.index++
	return nil
}

// Retreat moves one step back. It never validates and never touches form data.
func (m *StepMachine[S, F]) Retreat() bool {
	if m.index == 0 {
		return false
	}
	m.index--
	return true
}

// FirstInvalid re-checks every step up to and including the current one.
func (m *StepMachine[S, F]) FirstInvalid(form F) *ValidationError {
	for i := 0; i <= m.index; i++ {
		if msg := m.ValidateStep(m.steps[i], form); msg != "" {
			return &ValidationError{Step: fmt.Sprint(m.steps[i]), Message: msg}
		}
	}
	return nil
}

// NewCreatorMachine builds the creator sequence over the whole session.
func NewCreatorMachine() *StepMachine[StepID, *models.WizardSession] {
	return NewStepMachine(CreatorSteps, map[StepID]Validator[*models.WizardSession]{
		StepRoleSelect: func(s *models.WizardSession) string { return ValidateRole(s.Role) },
		StepPersonal:   func(s *models.WizardSession) string { return ValidatePersonal(s.Personal) },
		StepPlatformSelect: func(s *models.WizardSession) string {
			return ValidatePlatformSelection(s.SelectedPlatforms)
		},
		StepPlatformDetails: func(s *models.WizardSession) string {
			return ValidatePlatformDetails(s.SelectedPlatforms, s.PlatformDetails)
		},
		StepPricing: func(s *models.WizardSession) string {
			return ValidatePricing(s.SelectedPlatforms, s.Pricing)
		},
		StepProfilePicture: func(s *models.WizardSession) string { return s.ProfilePictureError },
	})
}

// NewBrandMachine builds the brand sequence over the brand draft.
func NewBrandMachine() *StepMachine[StepID, models.BrandData] {
	return NewStepMachine(BrandSteps, map[StepID]Validator[models.BrandData]{
		StepBrandDetails:     ValidateBrandDetails,
		StepBrandContact:     ValidateBrandContact,
		StepBrandPlatforms:   ValidateBrandPlatforms,
		StepBrandSocialLinks: ValidateBrandSocialLinks,
		StepBrandCollabPrefs: ValidateBrandCollabPrefs,
	})
}

// StepsFor lists the step sequence the session follows.
func StepsFor(s *models.WizardSession) []StepID {
	if s.IsBrandFlow() {
		return BrandSteps
	}
	return CreatorSteps
}

// CurrentStep names the step the session is on.
func CurrentStep(s *models.WizardSession) StepID {
	steps := StepsFor(s)
	if s.Step < 0 || s.Step >= len(steps) {
		return steps[0]
	}
	return steps[s.Step]
}

// IsTerminal reports whether the session sits on its review step.
func IsTerminal(s *models.WizardSession) bool {
	return s.Step == len(StepsFor(s))-1
}

// advanceSession runs Advance on whichever machine the session follows.
func advanceSession(s *models.WizardSession) error {
	if s.IsBrandFlow() {
		m := NewBrandMachine()
		if err := m.Restore(s.Step); err != nil {
			return err
		}
		if err := m.Advance(s.Brand); err != nil {
			return err
		}
		s.Step = m.Index()
		return nil
	}
	m := NewCreatorMachine()
	if err := m.Restore(s.Step); err != nil {
		return err
	}
	if err := m.Advance(s); err != nil {
		return err
	}
	s.Step = m.Index()
	return nil
}

func retreatSession(s *models.WizardSession) error {
	if s.IsBrandFlow() {
		m := NewBrandMachine()
		if err := m.Restore(s.Step); err != nil {
			return err
		}
		m.Retreat()
		s.Step = m.Index()
		return nil
	}
	m := NewCreatorMachine()
	if err := m.Restore(s.Step); err != nil {
		return err
	}
	m.Retreat()
	s.Step = m.Index()
	return nil
}

// revalidateSession is the submit-time check that every step up to the review passes.
func revalidateSession(s *models.WizardSession) *ValidationError {
	if s.IsBrandFlow() {
		m := NewBrandMachine()
		if err := m.Restore(s.Step); err != nil {
			return &ValidationError{Step: "", Message: err.Error()}
		}
		return m.FirstInvalid(s.Brand)
	}
	m := NewCreatorMachine()
	if err := m.Restore(s.Step); err != nil {
		return &ValidationError{Step: "", Message: err.Error()}
	}
	return m.FirstInvalid(s)
}
