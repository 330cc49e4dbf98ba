package service

import (
	"errors"

	"zerowaste/internal/ledger"
	"zerowaste/internal/matcher"
)

// Errors surfaced to callers. Every one of them leaves state unchanged.
var (
	ErrUnknownDonor         = matcher.ErrUnknownDonor
	ErrUnknownDonation      = errors.New("unknown donation")
	ErrUnknownReceiver      = ledger.ErrUnknownReceiver
	ErrNoEligibleReceiver   = errors.New("no receiver has sufficient capacity")
	ErrInsufficientCapacity = ledger.ErrInsufficientCapacity
	ErrLedgerOverflow       = ledger.ErrLedgerOverflow
	ErrRaceLost             = errors.New("receiver capacity was taken by a concurrent donation")
	ErrAlreadyCollected     = errors.New("donation already collected")
	ErrNotAssignedReceiver  = errors.New("donation is assigned to another receiver")

	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateName      = errors.New("organization name already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownOrg         = errors.New("unknown organization")
	ErrReportsDisabled    = errors.New("report storage is not configured")
)
