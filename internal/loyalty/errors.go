package loyalty

import "errors"

var (
	ErrCardNotFound        = errors.New("loyalty card not found")
	ErrClientNotFound      = errors.New("client not found")
	ErrDuplicateActiveCard = errors.New("client already has an active card")
	ErrDuplicateCode       = errors.New("card code already in use")
	ErrInvalidState        = errors.New("card is not in a valid state for this operation")
	ErrNoStampsToRemove    = errors.New("card has no stamps to remove")
)
