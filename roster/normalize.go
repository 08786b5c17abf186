// Package roster собирает представление команды из сырых строк хранилища.
// Все функции чистые: ничего не читают из базы и не изменяют входные данные.
package roster

import "github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/models"

// NormalizeDirectMember converts an embedded member reference into a
// TeamMember. It returns nil for an empty slot: a nil ref, or a ref whose
// id or name is missing or empty.
func NormalizeDirectMember(ref *models.TeamMemberRef) *models.TeamMember {
	if ref == nil || ref.ID == nil || ref.Name == nil {
		return nil
	}
	if *ref.ID == "" || *ref.Name == "" {
		return nil
	}
	return &models.TeamMember{
		ID:       *ref.ID,
		Name:     *ref.Name,
		PersonID: *ref.ID,
	}
}
