package domain

import "errors"

var (
	ErrQuestionNotFound     = errors.New("question not found")
	ErrInvalidQuestionID    = errors.New("invalid question id")
	ErrNoChoiceSelected     = errors.New("you didn't select a choice")
	ErrInvalidQuestion      = errors.New("invalid question")
	ErrInvalidPubDateFilter = errors.New("invalid pub_date filter")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUnauthorized         = errors.New("unauthorized")
)

// NoChoiceSelectedMessage is shown on the detail page when a vote is
// submitted without a valid choice.
const NoChoiceSelectedMessage = "You didn't select a choice."

// NoPollsMessage is shown on the index page when nothing is published.
const NoPollsMessage = "No polls are available."
