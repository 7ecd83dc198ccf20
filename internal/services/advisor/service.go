package advisor

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// ErrNoCandidates is returned when there is no one to suggest
var ErrNoCandidates = errors.New("no candidates to suggest from")

// suspicionWords are the tells the advisor weighs. A candidate mentioned
// in the same line as one of these scores extra; players who steer the
// table without drawing suspicion look the most like Merlin.
var suspicionWords = []string{
	"merlin",
	"knows",
	"knew",
	"trust",
	"sus",
	"suspicious",
	"quiet",
	"confident",
	"sure",
}

// service implements the Service interface
type service struct {
	rand *rand.Rand
}

// New creates a new advisor service
func New(cfg *Config) (*service, error) {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	return &service{
		rand: rand.New(rand.NewSource(seed)),
	}, nil
}

// SuggestTarget scores each candidate by how often the table talked about
// them, with suspicion-laden lines counting double. Ties go to the
// earliest seat so the pick is stable for a given transcript.
func (s *service) SuggestTarget(ctx context.Context, input *SuggestTargetInput) (*SuggestTargetOutput, error) {
	if input == nil || len(input.Candidates) == 0 {
		return nil, ErrNoCandidates
	}

	scores := make([]int, len(input.Candidates))
	for _, line := range input.Transcript {
		lower := strings.ToLower(line)

		loaded := false
		for _, word := range suspicionWords {
			if strings.Contains(lower, word) {
				loaded = true
				break
			}
		}

		for i, c := range input.Candidates {
			name := strings.ToLower(c.Name)
			if name == "" || !strings.Contains(lower, name) {
				continue
			}
			scores[i]++
			if loaded {
				scores[i]++
			}
		}
	}

	best := 0
	for i, score := range scores {
		if score > scores[best] {
			best = i
		}
	}

	target := input.Candidates[best]

	var reasoning string
	if scores[best] == 0 {
		// Nothing in the talk to go on; pick at random and say so
		target = input.Candidates[s.rand.Intn(len(input.Candidates))]
		quiet := []string{
			"The table gave nothing away. %s is as good a guess as any.",
			"No tells in the talk. Going with gut instinct: %s.",
			"Silence cuts both ways. Take the shot at %s.",
		}
		reasoning = fmt.Sprintf(quiet[s.rand.Intn(len(quiet))], target.Name)
	} else {
		pointed := []string{
			"The table kept circling back to %s. That is where Merlin hides.",
			"%s drew the most suspicion in the talk. Shoot there.",
			"Every thread of the conversation runs through %s.",
			"If anyone at this table saw too much, it was %s.",
		}
		reasoning = fmt.Sprintf(pointed[s.rand.Intn(len(pointed))], target.Name)
	}

	return &SuggestTargetOutput{
		TargetID:   target.ID,
		TargetName: target.Name,
		Reasoning:  reasoning,
	}, nil
}
