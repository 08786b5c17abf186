package models

// TeamMember — участник команды после нормализации.
// PersonID always equals ID; downstream consumers key on either.
type TeamMember struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	PersonID string `json:"personId"`
}

// TeamMemberRef is a person embedded in a team row (member1..3) or in a
// membership row. Either field may be missing.
type TeamMemberRef struct {
	ID   *string
	Name *string
}

// MembershipRow — строка join-таблицы team_members.
type MembershipRow struct {
	TeamID string
	Person *TeamMemberRef
}

// UniversityRef is the embedded university of a team row.
type UniversityRef struct {
	Name string
}

// TeamRow — строка teams с присоединёнными университетом и тремя прямыми слотами.
type TeamRow struct {
	ID         string
	Name       string
	University *UniversityRef
	Member1    *TeamMemberRef
	Member2    *TeamMemberRef
	Member3    *TeamMemberRef
}
