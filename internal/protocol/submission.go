package protocol

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/wagiedev/codex-proto-go/internal/message"
)

// Op type constants.
const (
	OpUserInput     = "user_input"
	OpExecApproval  = "exec_approval"
	OpPatchApproval = "patch_approval"
	OpInterrupt     = "interrupt"
	OpShutdown      = "shutdown"
)

// Decision is the answer to an approval request.
type Decision string

const (
	// DecisionAllow approves the pending command or patch.
	DecisionAllow Decision = "allow"
	// DecisionDeny rejects it.
	DecisionDeny Decision = "deny"
)

// DecisionFor maps an approval flag to its wire decision.
func DecisionFor(approved bool) Decision {
	if approved {
		return DecisionAllow
	}

	return DecisionDeny
}

// Submission is one request written to codex stdin.
type Submission struct {
	ID string `json:"id"`
	Op Op     `json:"op"`
}

// Op is the payload of a Submission.
type Op interface {
	OpType() string
}

// Compile-time verification that all ops implement Op.
var (
	_ Op = (*UserInput)(nil)
	_ Op = (*ExecApproval)(nil)
	_ Op = (*PatchApproval)(nil)
	_ Op = (*Interrupt)(nil)
	_ Op = (*Shutdown)(nil)
)

// UserInput sends one turn of user input.
type UserInput struct {
	Items []message.InputItem
}

// OpType implements the Op interface.
func (o *UserInput) OpType() string { return OpUserInput }

// MarshalJSON implements json.Marshaler.
func (o *UserInput) MarshalJSON() ([]byte, error) {
	items := o.Items
	if items == nil {
		items = []message.InputItem{}
	}

	return json.Marshal(struct {
		Type  string              `json:"type"`
		Items []message.InputItem `json:"items"`
	}{OpUserInput, items})
}

// ExecApproval answers an exec_approval_request event.
// ID is the id of the event that asked for approval.
type ExecApproval struct {
	ID       string
	Decision Decision
}

// OpType implements the Op interface.
func (o *ExecApproval) OpType() string { return OpExecApproval }

// MarshalJSON implements json.Marshaler.
func (o *ExecApproval) MarshalJSON() ([]byte, error) {
	return marshalApproval(OpExecApproval, o.ID, o.Decision)
}

// PatchApproval answers an apply_patch_approval_request event.
type PatchApproval struct {
	ID       string
	Decision Decision
}

// OpType implements the Op interface.
func (o *PatchApproval) OpType() string { return OpPatchApproval }

// MarshalJSON implements json.Marshaler.
func (o *PatchApproval) MarshalJSON() ([]byte, error) {
	return marshalApproval(OpPatchApproval, o.ID, o.Decision)
}

// Interrupt aborts the current turn.
type Interrupt struct{}

// OpType implements the Op interface.
func (o *Interrupt) OpType() string { return OpInterrupt }

// MarshalJSON implements json.Marshaler.
func (o *Interrupt) MarshalJSON() ([]byte, error) {
	return marshalBare(OpInterrupt)
}

// Shutdown asks codex to exit.
type Shutdown struct{}

// OpType implements the Op interface.
func (o *Shutdown) OpType() string { return OpShutdown }

// MarshalJSON implements json.Marshaler.
func (o *Shutdown) MarshalJSON() ([]byte, error) {
	return marshalBare(OpShutdown)
}

func marshalApproval(opType, id string, decision Decision) ([]byte, error) {
	return json.Marshal(struct {
		Type     string   `json:"type"`
		ID       string   `json:"id"`
		Decision Decision `json:"decision"`
	}{opType, id, decision})
}

func marshalBare(opType string) ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
	}{opType})
}

// newSubmission wraps op with a fresh identifier.
func newSubmission(op Op) *Submission {
	return &Submission{ID: uuid.NewString(), Op: op}
}

// NewUserInput builds a user_input submission.
func NewUserInput(items ...message.InputItem) *Submission {
	return newSubmission(&UserInput{Items: items})
}

// NewExecApproval builds an exec_approval submission.
func NewExecApproval(eventID string, approved bool) *Submission {
	return newSubmission(&ExecApproval{ID: eventID, Decision: DecisionFor(approved)})
}

// NewPatchApproval builds a patch_approval submission.
func NewPatchApproval(eventID string, approved bool) *Submission {
	return newSubmission(&PatchApproval{ID: eventID, Decision: DecisionFor(approved)})
}

// NewInterrupt builds an interrupt submission.
func NewInterrupt() *Submission {
	return newSubmission(&Interrupt{})
}

// NewShutdown builds a shutdown submission.
func NewShutdown() *Submission {
	return newSubmission(&Shutdown{})
}
