package constants

// ParseMethod records which code path produced a final expense candidate.
type ParseMethod string

// Stable values (the UI keys off these exact strings).
const (
	ParseMethodBasic       ParseMethod = "Basic"                // regex extraction accepted as-is
	ParseMethodRateLimited ParseMethod = "Basic (Rate Limited)" // AI skipped by the local limiter
	ParseMethodAIFailed    ParseMethod = "Basic (AI Failed)"    // AI attempted and failed
	ParseMethodAI          ParseMethod = "Perplexity AI"        // AI enhancement succeeded
)
