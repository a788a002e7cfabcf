package thinking

// Scenario names a canned step catalog.
type Scenario string

const (
	ScenarioMessageSend Scenario = "message_send"
	ScenarioUserLogin   Scenario = "user_login"
	ScenarioFriendAdd   Scenario = "friend_add"
)

// NewScenario creates a tracker pre-populated with the canned steps for
// the given scenario. Unknown scenarios get the generic catalog.
func NewScenario(scenario Scenario) *Tracker {
	t := NewTracker()
	t.SetContext("scenario", string(scenario))
	t.SetContext("app", "ai_messenger")

	switch scenario {
	case ScenarioMessageSend:
		t.AddStep("Analyze user input", nil, StepAnalysis)
		t.AddStep("Validate message", nil, StepAnalysis)
		t.AddStep("Confirm recipient", nil, StepAnalysis)
		t.AddStep("Decide to send message", nil, StepDecision)
		t.AddStep("Send message to server", nil, StepAction)
		t.AddStep("Verify delivery result", nil, StepReflection)

	case ScenarioUserLogin:
		t.AddStep("Collect login credentials", nil, StepAnalysis)
		t.AddStep("Validate input data", nil, StepAnalysis)
		t.AddStep("Request authentication", nil, StepAction)
		t.AddStep("Handle authentication result", nil, StepDecision)
		t.AddStep("Create user session", nil, StepAction)
		t.AddStep("Confirm login complete", nil, StepReflection)

	case ScenarioFriendAdd:
		t.AddStep("Search for friend candidate", nil, StepAnalysis)
		t.AddStep("Check existing friendship", nil, StepAnalysis)
		t.AddStep("Decide to send request", nil, StepDecision)
		t.AddStep("Send friend request", nil, StepAction)
		t.AddStep("Update request status", nil, StepAction)
		t.AddStep("Review outcome", nil, StepReflection)

	default:
		t.AddStep("Analyze situation", nil, StepAnalysis)
		t.AddStep("Explore solutions", nil, StepDecision)
		t.AddStep("Execute", nil, StepAction)
		t.AddStep("Review result", nil, StepReflection)
	}

	return t
}
