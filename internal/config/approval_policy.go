package config

// Approval policies accepted by codex.
const (
	ApprovalUntrusted = "untrusted"
	ApprovalOnFailure = "on-failure"
	ApprovalOnRequest = "on-request"
	ApprovalNever     = "never"
)

// NormalizeApprovalPolicy maps legacy approval policy names to current codex values.
//
// Legacy mappings:
//   - "unless-allow-listed" -> "untrusted"
//
// Any other value, known or not, is passed through unchanged.
func NormalizeApprovalPolicy(policy string) string {
	switch policy {
	case "unless-allow-listed":
		return ApprovalUntrusted
	default:
		return policy
	}
}
