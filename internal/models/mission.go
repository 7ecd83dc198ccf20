package models

// MissionStatus represents the current state of a mission
type MissionStatus string

const (
	// MissionStatusPending indicates a mission that has not started yet
	MissionStatusPending MissionStatus = "pending"

	// MissionStatusTeamSelection indicates the leader is picking a team
	MissionStatusTeamSelection MissionStatus = "team_selection"

	// MissionStatusTeamVoting indicates the proposed team is being voted on
	MissionStatusTeamVoting MissionStatus = "team_voting"

	// MissionStatusInProgress indicates the team is playing mission cards
	MissionStatusInProgress MissionStatus = "in_progress"

	// MissionStatusSucceeded indicates the mission resolved for Good
	MissionStatusSucceeded MissionStatus = "succeeded"

	// MissionStatusFailed indicates the mission resolved for Evil
	MissionStatusFailed MissionStatus = "failed"
)

// Terminal reports whether the mission has resolved one way or the other
func (s MissionStatus) Terminal() bool {
	return s == MissionStatusSucceeded || s == MissionStatusFailed
}

// Vote is a ballot on a proposed team
type Vote string

const (
	// VoteApprove accepts the proposed team
	VoteApprove Vote = "approve"

	// VoteReject declines the proposed team
	VoteReject Vote = "reject"
)

// Card is a mission card played by a team member
type Card string

const (
	// CardSuccess contributes to the mission succeeding
	CardSuccess Card = "success"

	// CardFail sabotages the mission
	CardFail Card = "fail"
)

// Mission is one of the five scored rounds of a match
type Mission struct {
	// Sequence is the 1-based mission number
	Sequence int

	// TeamSize is how many players the leader must propose
	TeamSize int

	// FailsRequired is how many fail cards it takes to fail the mission
	FailsRequired int

	// Status is the current state of the mission
	Status MissionStatus

	// Team holds the proposed player IDs, exactly TeamSize once proposed
	Team []string

	// EligibleVoters is the ballot count that closes the vote, fixed at
	// proposal time as roster size minus the leader
	EligibleVoters int

	// Votes maps player ID to ballot. A key present means the player has
	// voted; there is no separate has-voted structure.
	Votes map[string]Vote

	// Cards maps team-member ID to the card they played
	Cards map[string]Card
}

// OnTeam reports whether the player is part of the proposed team
func (m *Mission) OnTeam(playerID string) bool {
	for _, id := range m.Team {
		if id == playerID {
			return true
		}
	}
	return false
}

// FailCount returns the number of fail cards played so far
func (m *Mission) FailCount() int {
	count := 0
	for _, card := range m.Cards {
		if card == CardFail {
			count++
		}
	}
	return count
}
