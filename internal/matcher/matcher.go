// Package matcher selects the receiver a new donation should go to.
//
// Matching is a pure read: it never touches the ledger. The caller debits the
// chosen receiver and must treat a failed debit as a lost race.
package matcher

import (
	"context"
	"errors"
	"fmt"

	"zerowaste/internal/geo"
	"zerowaste/internal/model"
	"zerowaste/internal/repository"
)

var (
	// ErrUnknownDonor is returned when the donor id does not resolve to a donor.
	ErrUnknownDonor = errors.New("unknown donor")
	// ErrNoMatch is returned when no receiver has enough remaining capacity.
	ErrNoMatch = errors.New("no receiver with sufficient capacity")
)

// DistanceFunc computes the distance in km between two coordinates.
type DistanceFunc func(lat1, lon1, lat2, lon2 float64) float64

// Candidate is a scored eligible receiver.
type Candidate struct {
	Receiver model.Organization
	Distance float64
	Score    float64
}

// Match is the outcome of a successful Matcher.Match.
type Match struct {
	Donor model.Organization
	Candidate
}

// Select returns the eligible receiver with the lowest score.
// Receivers are considered in the order given; on equal scores the earlier one wins.
func Select(origin model.Coordinate, receivers []model.Organization, quantity, expiryHours int, policy Policy, distance DistanceFunc) (Candidate, bool) {
	var (
		best  Candidate
		found bool
	)
	for _, r := range receivers {
		if !r.IsReceiver() || r.Capacity < quantity {
			continue
		}
		d := distance(origin.Latitude, origin.Longitude, r.Location.Latitude, r.Location.Longitude)
		score := policy.Score(d, expiryHours)
		if !found || score < best.Score {
			best = Candidate{Receiver: r, Distance: d, Score: score}
			found = true
		}
	}
	return best, found
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithPolicy overrides the scoring policy.
func WithPolicy(p Policy) Option {
	return func(m *Matcher) { m.policy = p }
}

// WithDistance overrides the distance function.
func WithDistance(fn DistanceFunc) Option {
	return func(m *Matcher) { m.distance = fn }
}

// Matcher resolves donors and ranks receivers read from an OrganizationRepository.
type Matcher struct {
	orgs     repository.OrganizationRepository
	policy   Policy
	distance DistanceFunc
}

// New constructs a Matcher using the default policy and haversine distance.
func New(orgs repository.OrganizationRepository, opts ...Option) *Matcher {
	m := &Matcher{
		orgs:     orgs,
		policy:   DefaultPolicy(),
		distance: geo.Distance,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match picks the best receiver for a donation of quantity units expiring in expiryHours.
func (m *Matcher) Match(ctx context.Context, donorID string, quantity, expiryHours int) (*Match, error) {
	donor, err := m.orgs.FindByID(ctx, donorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownDonor
		}
		return nil, fmt.Errorf("resolve donor: %w", err)
	}
	if donor.Role != model.RoleDonor {
		return nil, ErrUnknownDonor
	}

	receivers, err := m.orgs.ListReceivers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list receivers: %w", err)
	}

	best, ok := Select(donor.Location, receivers, quantity, expiryHours, m.policy, m.distance)
	if !ok {
		return nil, ErrNoMatch
	}
	return &Match{Donor: *donor, Candidate: best}, nil
}
