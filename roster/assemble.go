package roster

import "github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/models"

// AssembleRoster merges the three direct slots and the join-table
// memberships into one roster keyed by member id.
//
// Direct slots come first, in slot order. Memberships follow in input
// order; a membership naming an id that is already on the roster is
// dropped. The result is never nil.
func AssembleRoster(member1, member2, member3 *models.TeamMemberRef, memberships []models.MembershipRow) []models.TeamMember {
	members := make([]models.TeamMember, 0, 3+len(memberships))
	seen := make(map[string]struct{}, 3+len(memberships))

	for _, ref := range [...]*models.TeamMemberRef{member1, member2, member3} {
		m := NormalizeDirectMember(ref)
		if m == nil {
			continue
		}
		// Один и тот же человек в двух слотах — это тоже дубль.
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		members = append(members, *m)
	}

	for _, row := range memberships {
		m := NormalizeDirectMember(row.Person)
		if m == nil {
			continue
		}
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		members = append(members, *m)
	}

	return members
}
