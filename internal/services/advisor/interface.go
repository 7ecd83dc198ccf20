package advisor

import "context"

// Service suggests an assassination target from public table talk. It is
// advisory only: the engine never acts on a suggestion, the Assassin does.
type Service interface {
	// SuggestTarget ranks the candidates against the transcript and
	// returns one pick with a line of reasoning
	SuggestTarget(ctx context.Context, input *SuggestTargetInput) (*SuggestTargetOutput, error)
}
