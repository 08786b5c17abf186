package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ошибки валидации
	ErrTeamNameRequired       = errors.New("team name is required")
	ErrTeamDuplicateSlot      = errors.New("the same person is set in more than one team slot")
	ErrTeamReferenceInvalid   = errors.New("team references an unknown university or profile")
	ErrProfileNameRequired    = errors.New("profile name is required")
	ErrProfileUniversity      = errors.New("profile references an unknown university")
	ErrUniversityNameRequired = errors.New("university name is required")
	ErrEventNameRequired      = errors.New("event name is required")
	ErrContestNameRequired    = errors.New("contest name is required")
	ErrContestEventInvalid    = errors.New("contest references an unknown event")
	ErrInvalidYear            = errors.New("year must be between 1970 and 2100")
	ErrInvalidDuration        = errors.New("contest duration must be positive")
	ErrInvalidPosition        = errors.New("position must be positive")
	ErrResultTeamInvalid      = errors.New("result references an unknown team")
	ErrProblemLabelRequired   = errors.New("problem label and name are required")
	ErrProblemNotInContest    = errors.New("problem does not belong to this contest")
	ErrInvalidVerdict         = errors.New("invalid submission verdict")
	ErrInvalidMinute          = errors.New("submission minute is outside the contest")
	ErrSubmissionInvalid      = errors.New("submission references an unknown team")
	ErrUnsupportedLogoType    = errors.New("logo must be a png, jpeg, webp or svg image")

	// Ошибки конфликтов
	ErrUniversityNameConflict = errors.New("university name is already in use")
	ErrProfileHandleConflict  = errors.New("profile handle is already in use")
	ErrProblemLabelConflict   = errors.New("problem label is already used in this contest")

	// Ошибки, специфичные для сущностей
	ErrTeamNotFound       = errors.New("team not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrUniversityNotFound = errors.New("university not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrContestNotFound    = errors.New("contest not found")
	ErrProblemNotFound    = errors.New("problem not found")
	ErrResultNotFound     = errors.New("contest result not found")
	ErrMembershipNotFound = errors.New("team membership not found")

	// Хранилище логотипов не настроено
	ErrStorageDisabled = errors.New("logo storage is not configured")
)
