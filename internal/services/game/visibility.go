package game

import (
	"fmt"

	"github.com/ShyGirl95/Avalon/internal/models"
)

// missionPlan returns the five missions for a roster size. Only the
// 5-player table is supported; team sizes follow the standard 5-player
// layout with a single fail card required everywhere.
func missionPlan(rosterSize int) ([]*models.Mission, error) {
	if rosterSize != 5 {
		return nil, fmt.Errorf("%w: no mission table for %d players", ErrRosterSizeInvalid, rosterSize)
	}

	teamSizes := []int{2, 3, 2, 3, 3}
	missions := make([]*models.Mission, 0, len(teamSizes))
	for i, size := range teamSizes {
		missions = append(missions, &models.Mission{
			Sequence:      i + 1,
			TeamSize:      size,
			FailsRequired: 1,
			Status:        models.MissionStatusPending,
		})
	}

	return missions, nil
}

// roleSet returns the fixed role set for a roster size
func roleSet(rosterSize int) ([]models.Role, error) {
	if rosterSize != 5 {
		return nil, fmt.Errorf("%w: no role set for %d players", ErrRosterSizeInvalid, rosterSize)
	}

	return []models.Role{
		models.RoleMerlin,
		models.RolePercival,
		models.RoleLoyalServant,
		models.RoleMorgana,
		models.RoleAssassin,
	}, nil
}

// computeVisions derives every player's hidden knowledge from the assigned
// roles. Computed once, right after the shuffle; the expiry deadline is
// stamped later, when each player confirms their role.
//
// Rules:
//   - Merlin sees all Evil players except Mordred.
//   - Percival sees Merlin and Morgana as an indistinguishable pair.
//   - Evil players other than Oberon see each other, but never Oberon.
//   - Oberon and everyone else see no one.
func computeVisions(players []*models.Player) map[string]*models.Vision {
	visions := make(map[string]*models.Vision, len(players))

	for _, viewer := range players {
		seen := make(map[string]models.VisionKind)

		for _, other := range players {
			if other.ID == viewer.ID {
				continue
			}

			switch {
			case viewer.Role == models.RoleMerlin:
				if other.Role.Alignment() == models.AlignmentEvil && other.Role != models.RoleMordred {
					seen[other.ID] = models.VisionEvil
				}
			case viewer.Role == models.RolePercival:
				if other.Role == models.RoleMerlin || other.Role == models.RoleMorgana {
					seen[other.ID] = models.VisionMerlinOrMorgana
				}
			case viewer.Role.Alignment() == models.AlignmentEvil && viewer.Role != models.RoleOberon:
				if other.Role.Alignment() == models.AlignmentEvil && other.Role != models.RoleOberon {
					seen[other.ID] = models.VisionEvil
				}
			}
		}

		if len(seen) > 0 {
			visions[viewer.ID] = &models.Vision{Seen: seen}
		}
	}

	return visions
}

// pruneExpiredVisions clears vision highlights whose deadline has passed.
// Returns true when anything was removed. A zero deadline means the player
// has not confirmed their role yet, so the window has not started.
func (s *service) pruneExpiredVisions(sess *models.GameSession) bool {
	now := s.clock.Now()
	pruned := false

	for playerID, vision := range sess.Visions {
		if !vision.ExpiresAt.IsZero() && now.After(vision.ExpiresAt) {
			delete(sess.Visions, playerID)
			pruned = true
		}
	}

	return pruned
}
