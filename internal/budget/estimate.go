package budget

// Token estimation uses the common ~4 chars/token rule of thumb. It only
// feeds the status line and near-limit warnings; the inference engine is
// the authority on actual overflow.

// ContextStatus indicates estimated context window usage.
type ContextStatus int

const (
	ContextOK ContextStatus = iota
	ContextNearLimit
)

const nearLimitRatio = 0.85

// EstimateTokens estimates the token count of a text string.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + 3) / 4
}

// CheckContext reports whether an estimated prompt token count, plus the
// reserved output allowance, is close to the context window.
// windowTokens <= 0 disables the check.
func CheckContext(promptTokens, outputTokens, windowTokens int) ContextStatus {
	if windowTokens <= 0 {
		return ContextOK
	}
	if float64(promptTokens+outputTokens) >= nearLimitRatio*float64(windowTokens) {
		return ContextNearLimit
	}
	return ContextOK
}
