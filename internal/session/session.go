// Package session holds the input/result pair of one calculator session and
// applies edits to it, recomputing the result after every change.
package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/iwvelando/repair-reserve/internal/lookup"
	"github.com/iwvelando/repair-reserve/internal/reserve"
	"github.com/iwvelando/repair-reserve/pkg/validation"
	"go.uber.org/zap"
)

// Field identifies what an Edit changes.
type Field string

const (
	FieldMode             Field = "mode"
	FieldPeriodInputMode  Field = "periodInputMode"
	FieldPeriodAmount     Field = "periodAmount"
	FieldTotalRepairCost  Field = "totalRepairCost"
	FieldAccumulationRate Field = "accumulationRate"
	FieldDurationMonths   Field = "durationMonths"
	FieldStartYear        Field = "startYear"
	FieldEndYear          Field = "endYear"
	FieldTotalComplexArea Field = "totalComplexArea"
	FieldHouseholdArea    Field = "householdArea"
)

// Edit is one user change. Numeric fields take the raw entered text in Text
// when it is set, otherwise Value. Text also carries the two mode enums.
type Edit struct {
	Field Field   `json:"field"`
	Value float64 `json:"value,omitempty"`
	Text  string  `json:"text,omitempty"`
}

// amount returns the edit's non-negative numeric value.
func (e Edit) amount() float64 {
	if e.Text != "" {
		return validation.ParseAmount(e.Text)
	}
	return validation.NonNegative(e.Value)
}

// year returns the edit's value as a year. Values that are not positive whole
// numbers within range become 0, which the reconciler treats as blank.
func (e Edit) year() int {
	if e.Text != "" {
		return validation.ParseYear(e.Text)
	}
	return validation.WholeNumber(e.Value)
}

// months is year for month counts.
func (e Edit) months() int {
	if e.Text != "" {
		return validation.ParseMonths(e.Text)
	}
	return validation.WholeNumber(e.Value)
}

// Apply returns in with the edit applied. Period fields go through the
// reconciler; other fields are plain assignments.
func Apply(in reserve.Inputs, edit Edit) (reserve.Inputs, error) {
	switch edit.Field {
	case FieldMode:
		mode := reserve.Mode(edit.Text)
		if !mode.Valid() {
			return in, fmt.Errorf("unknown mode %q", edit.Text)
		}
		return reserve.ApplyModeSwitch(in, mode), nil
	case FieldPeriodInputMode:
		mode := reserve.PeriodInputMode(edit.Text)
		if !mode.Valid() {
			return in, fmt.Errorf("unknown period input mode %q", edit.Text)
		}
		return reserve.ApplyPeriodInputModeSwitch(in, mode), nil
	case FieldDurationMonths:
		return reserve.ApplyDurationEdit(in, edit.months()), nil
	case FieldStartYear:
		return reserve.ApplyRangeEdit(in, reserve.RangeStart, edit.year()), nil
	case FieldEndYear:
		return reserve.ApplyRangeEdit(in, reserve.RangeEnd, edit.year()), nil
	case FieldPeriodAmount:
		in.PeriodAmount = edit.amount()
	case FieldTotalRepairCost:
		in.TotalRepairCost = edit.amount()
	case FieldAccumulationRate:
		in.AccumulationRate = edit.amount()
	case FieldTotalComplexArea:
		in.TotalComplexArea = edit.amount()
	case FieldHouseholdArea:
		in.HouseholdArea = edit.amount()
	default:
		return in, fmt.Errorf("unknown field %q", edit.Field)
	}
	return in, nil
}

// Session owns the current inputs and the result derived from them, plus the
// latest outstanding request token for each collaborator.
type Session struct {
	mu     sync.Mutex
	logger *zap.Logger
	inputs reserve.Inputs
	result *reserve.Result

	pending map[Collaborator]string
	advice  string
	area    *lookup.Result
}

// New creates a session from initial inputs and computes the first result.
func New(logger *zap.Logger, initial reserve.Inputs) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		logger:  logger,
		pending: make(map[Collaborator]string),
	}
	s.replace(reserve.Reconcile(initial.Normalize()))
	return s
}

// Inputs returns a copy of the current inputs.
func (s *Session) Inputs() reserve.Inputs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputs
}

// Result returns a copy of the current result, or nil when the inputs are not computable.
func (s *Session) Result() *reserve.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil
	}
	r := *s.result
	return &r
}

// Apply applies one edit and recomputes. A rejected edit leaves the session unchanged.
func (s *Session) Apply(edit Edit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Apply(s.inputs, edit)
	if err != nil {
		s.logger.Debug("edit rejected",
			zap.String("op", "session.Apply"),
			zap.String("field", string(edit.Field)),
			zap.Error(err),
		)
		return err
	}
	s.replace(next)
	return nil
}

// Reset replaces the inputs wholesale, as when a form is reloaded.
func (s *Session) Reset(in reserve.Inputs) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(reserve.Reconcile(in.Normalize()))
}

// replace must be called with mu held.
func (s *Session) replace(next reserve.Inputs) {
	changed := next != s.inputs
	s.inputs = next

	result, ok := reserve.Calculate(next)
	if !ok {
		s.result = nil
		if changed {
			s.logger.Debug("inputs not computable",
				zap.String("op", "session.replace"),
				zap.String("missing", string(reserve.Check(next))),
			)
		}
		return
	}
	s.result = &result
}

// Collaborator names an external service whose answers the session tracks.
type Collaborator string

const (
	Advice Collaborator = "advice"
	Lookup Collaborator = "lookup"
)

// Begin issues a fresh request token for c, superseding any outstanding one.
func (s *Session) Begin(c Collaborator) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.pending[c] = token
	s.mu.Unlock()
	return token
}

// Pending reports whether a request for c is outstanding.
func (s *Session) Pending(c Collaborator) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[c]
	return ok
}

// CompleteAdvice stores advice text when token is the latest advice request.
// Stale completions are dropped and reported as false.
func (s *Session) CompleteAdvice(token, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.accept(Advice, token) {
		return false
	}
	s.advice = text
	return true
}

// Advice returns the most recently accepted advice text.
func (s *Session) Advice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advice
}

// CompleteLookup stores a lookup answer when token is the latest lookup
// request. The answer is only remembered; ApplyLookup copies it into the inputs.
func (s *Session) CompleteLookup(token string, answer lookup.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.accept(Lookup, token) {
		return false
	}
	s.area = &answer
	return true
}

// LookupAnswer returns the most recently accepted lookup answer, or nil.
func (s *Session) LookupAnswer() *lookup.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.area == nil {
		return nil
	}
	answer := *s.area
	return &answer
}

// ApplyLookup copies the usable areas of the accepted lookup answer into the
// inputs and recomputes. It reports false when there is nothing to apply.
func (s *Session) ApplyLookup() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.area == nil || !s.area.Found {
		return false
	}
	next := s.inputs
	if s.area.TotalArea > 0 {
		next.TotalComplexArea = s.area.TotalArea
	}
	if s.area.HouseholdArea > 0 {
		next.HouseholdArea = s.area.HouseholdArea
	}
	s.replace(next)
	return true
}

// accept must be called with mu held.
func (s *Session) accept(c Collaborator, token string) bool {
	if current, ok := s.pending[c]; !ok || current != token {
		s.logger.Debug("dropping stale collaborator response",
			zap.String("op", "session.accept"),
			zap.String("collaborator", string(c)),
		)
		return false
	}
	delete(s.pending, c)
	return true
}
