package advisor

// Config holds configuration for the advisor service
type Config struct {
	// Optional seed for the phrasing randomness, 0 means time-based
	Seed int64
}

// Candidate is a player the Assassin may target
type Candidate struct {
	// ID is the player's identifier
	ID string

	// Name is the display name used to match transcript mentions
	Name string
}

// SuggestTargetInput contains the candidates and the public table talk
type SuggestTargetInput struct {
	// Candidates are the players still eligible to be shot
	Candidates []Candidate

	// Transcript holds the public chat lines of the match, oldest first
	Transcript []string
}

// SuggestTargetOutput contains the advisor's pick
type SuggestTargetOutput struct {
	// TargetID is the suggested player
	TargetID string

	// TargetName is the suggested player's display name
	TargetName string

	// Reasoning is a one-line rationale for showing to the Assassin
	Reasoning string
}
