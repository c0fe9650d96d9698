package activities

import "errors"

var (
	TitleRequiredErr      = errors.New("title is required")
	SportRequiredErr      = errors.New("sport is required")
	StartInPastErr        = errors.New("start date cannot be in the past")
	EndBeforeStartErr     = errors.New("end date must be after start date")
	TooFewPlayersErr      = errors.New("at least 2 players are required")
	NameRequiredErr       = errors.New("participant name is required")
	PhoneRequiredErr      = errors.New("participant phone is required")
	ActivityIDRequiredErr = errors.New("activity id is required")
	QueryRequiredErr      = errors.New("search query is required")
)
