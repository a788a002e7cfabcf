// Package thinking tracks an ordered checklist of reasoning steps with a
// cursor, exposed for visualization.
package thinking

import (
	"time"
)

// StepType categorizes a reasoning step.
type StepType string

const (
	StepAnalysis   StepType = "analysis"
	StepDecision   StepType = "decision"
	StepAction     StepType = "action"
	StepReflection StepType = "reflection"
)

// Step is one entry in the checklist.
type Step struct {
	ID          int            `json:"id"`
	Description string         `json:"description"`
	Type        StepType       `json:"type"`
	Data        map[string]any `json:"data,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
	Completed   bool           `json:"completed"`
	Result      any            `json:"result"`
}

// Tracker is an ordered list of steps plus a cursor marking the current
// one. Not safe for concurrent use.
type Tracker struct {
	steps   []*Step
	current int
	context map[string]any
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{context: make(map[string]any)}
}

// AddStep appends a step and returns it. IDs are 1-based positions.
func (t *Tracker) AddStep(description string, data map[string]any, stepType StepType) *Step {
	step := &Step{
		ID:          len(t.steps) + 1,
		Description: description,
		Type:        stepType,
		Data:        data,
		Timestamp:   time.Now(),
	}
	t.steps = append(t.steps, step)
	return step
}

// CompleteCurrent marks the current step completed with the given result
// and advances the cursor. No-op past the end.
func (t *Tracker) CompleteCurrent(result any) {
	if t.current < len(t.steps) {
		t.steps[t.current].Completed = true
		t.steps[t.current].Result = result
		t.current++
	}
}

// Next moves the cursor forward and returns the new current step, or nil
// at the end.
func (t *Tracker) Next() *Step {
	if t.current < len(t.steps)-1 {
		t.current++
		return t.steps[t.current]
	}
	return nil
}

// Prev moves the cursor back and returns the new current step, or nil at
// the start.
func (t *Tracker) Prev() *Step {
	if t.current > 0 {
		t.current--
		return t.steps[t.current]
	}
	return nil
}

// Current returns the step under the cursor, or nil.
func (t *Tracker) Current() *Step {
	if t.current < len(t.steps) {
		return t.steps[t.current]
	}
	return nil
}

// Steps returns all steps in order.
func (t *Tracker) Steps() []*Step {
	return t.steps
}

// StepsByType returns the steps of one type, in order.
func (t *Tracker) StepsByType(stepType StepType) []*Step {
	var out []*Step
	for _, step := range t.steps {
		if step.Type == stepType {
			out = append(out, step)
		}
	}
	return out
}

// SetContext stores a context value on the tracker.
func (t *Tracker) SetContext(key string, value any) {
	t.context[key] = value
}

// Context returns a context value.
func (t *Tracker) Context(key string) any {
	return t.context[key]
}

// Reset discards all steps and context.
func (t *Tracker) Reset() {
	t.steps = nil
	t.current = 0
	t.context = make(map[string]any)
}

// TrackerRecord is the stored form of a tracker.
type TrackerRecord struct {
	Steps   []Step         `json:"steps"`
	Current int            `json:"current"`
	Context map[string]any `json:"context"`
}

// Record converts the tracker to its stored form.
func (t *Tracker) Record() TrackerRecord {
	steps := make([]Step, len(t.steps))
	for i, step := range t.steps {
		steps[i] = *step
	}
	context := make(map[string]any, len(t.context))
	for k, v := range t.context {
		context[k] = v
	}
	return TrackerRecord{
		Steps:   steps,
		Current: t.current,
		Context: context,
	}
}

// TrackerFromRecord reconstructs a tracker from its stored form. An
// out-of-range cursor is clamped to the step range.
func TrackerFromRecord(rec TrackerRecord) *Tracker {
	steps := make([]*Step, len(rec.Steps))
	for i := range rec.Steps {
		step := rec.Steps[i]
		steps[i] = &step
	}

	current := rec.Current
	if current < 0 {
		current = 0
	}
	if current > len(steps) {
		current = len(steps)
	}

	context := rec.Context
	if context == nil {
		context = make(map[string]any)
	}

	return &Tracker{steps: steps, current: current, context: context}
}

// Summary reports progress counts.
type Summary struct {
	TotalSteps       int              `json:"totalSteps"`
	CompletedSteps   int              `json:"completedSteps"`
	PendingSteps     int              `json:"pendingSteps"`
	CurrentStepIndex int              `json:"currentStepIndex"`
	Progress         float64          `json:"progress"`
	StepsByType      map[StepType]int `json:"stepsByType"`
}

// Summarize counts steps by completion and type. Progress is a
// percentage; an empty tracker is 0%.
func (t *Tracker) Summarize() Summary {
	completed := 0
	byType := map[StepType]int{
		StepAnalysis:   0,
		StepDecision:   0,
		StepAction:     0,
		StepReflection: 0,
	}
	for _, step := range t.steps {
		if step.Completed {
			completed++
		}
		byType[step.Type]++
	}

	progress := 0.0
	if len(t.steps) > 0 {
		progress = float64(completed) / float64(len(t.steps)) * 100
	}

	return Summary{
		TotalSteps:       len(t.steps),
		CompletedSteps:   completed,
		PendingSteps:     len(t.steps) - completed,
		CurrentStepIndex: t.current,
		Progress:         progress,
		StepsByType:      byType,
	}
}
