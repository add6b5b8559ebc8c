package pipeline

import "fridge-chef/internal/core/recipe"

// Step names as streamed to the client.
const (
	StepExtract = "Extract Ingredients"
	StepFormat  = "Format Ingredients"
	StepSearch  = "Search Recipes"
	StepDetails = "Get Recipe Details"
)

// stepOrder drives both execution and failed-step attribution.
var stepOrder = []string{StepExtract, StepFormat, StepSearch, StepDetails}

// Step statuses as streamed to the client.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// Event types on the NDJSON stream.
const (
	EventStepUpdate   = "step_update"
	EventStepComplete = "step_complete"
	EventError        = "error"
	EventComplete     = "complete"
	EventMessage      = "message"
)

// StepInfo describes one step transition on the wire.
type StepInfo struct {
	StepName string `json:"step_name"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

// StepState tracks completion and the step's headline output for the
// step_summary field of terminal events.
type StepState struct {
	Completed bool `json:"completed"`
	Data      any  `json:"data"`
}

// Event is one NDJSON line of the chat stream.
type Event struct {
	Type        string                `json:"type"`
	Step        *StepInfo             `json:"step,omitempty"`
	Data        map[string]any        `json:"data,omitempty"`
	Message     string                `json:"message,omitempty"`
	Error       string                `json:"error,omitempty"`
	Summary     map[string]any        `json:"summary,omitempty"`
	StepSummary map[string]*StepState `json:"step_summary,omitempty"`
}

// State holds one request's progress through the pipeline. It is
// request-scoped and never shared between goroutines.
type State struct {
	Ingredients []string
	Query       string
	Stubs       []recipe.Stub
	Details     *recipe.DetailsResult

	steps map[string]*StepState
}

// NewState creates a fresh pipeline state with every step pending.
func NewState() *State {
	steps := make(map[string]*StepState, len(stepOrder))
	for _, name := range stepOrder {
		steps[name] = &StepState{}
	}
	return &State{steps: steps}
}

func (s *State) complete(step string, data any) {
	s.steps[step].Completed = true
	s.steps[step].Data = data
}

// firstIncomplete names the step a failure should be attributed to.
func (s *State) firstIncomplete() string {
	for _, name := range stepOrder {
		if !s.steps[name].Completed {
			return name
		}
	}
	return "Processing"
}

// StepSummary exposes the per-step completion map for terminal events.
func (s *State) StepSummary() map[string]*StepState {
	return s.steps
}

// StubPreview is the abbreviated search result attached to the search step's
// step_complete event.
type StubPreview struct {
	ID                    int    `json:"id"`
	Title                 string `json:"title"`
	UsedIngredientCount   int    `json:"usedIngredientCount"`
	MissedIngredientCount int    `json:"missedIngredientCount"`
}

// RecipeSummary is one entry of the terminal complete event: the canonical
// detail record plus match info from the originating search stub.
type RecipeSummary struct {
	recipe.Detail
	UsedIngredientCount   int      `json:"usedIngredientCount"`
	MissedIngredientCount int      `json:"missedIngredientCount"`
	UsedIngredients       []string `json:"usedIngredients"`
	MissedIngredients     []string `json:"missedIngredients"`
}
