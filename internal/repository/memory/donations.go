package memory

import (
	"context"
	"fmt"
	"time"

	"zerowaste/internal/model"
	"zerowaste/internal/repository"
)

type donations struct {
	s  *Store
	tx *tx
}

func (r *donations) donorName(id string) string {
	r.s.orgMu.RLock()
	defer r.s.orgMu.RUnlock()
	return r.s.orgs[id].Name
}

func (r *donations) Create(_ context.Context, d *model.Donation) (*model.Donation, error) {
	s := r.s
	s.donMu.Lock()
	if _, ok := s.donations[d.ID]; ok {
		s.donMu.Unlock()
		return nil, repository.ErrDuplicate
	}
	stored := *d
	s.donations[stored.ID] = stored
	s.donOrder = append(s.donOrder, stored.ID)
	s.donMu.Unlock()

	r.tx.record(func() { s.removeDonation(stored.ID) })
	return &stored, nil
}

func (s *Store) removeDonation(id string) {
	s.donMu.Lock()
	defer s.donMu.Unlock()
	delete(s.donations, id)
	for i, did := range s.donOrder {
		if did == id {
			s.donOrder = append(s.donOrder[:i], s.donOrder[i+1:]...)
			break
		}
	}
}

func (r *donations) FindByID(_ context.Context, id string) (*model.Donation, error) {
	r.s.donMu.RLock()
	d, ok := r.s.donations[id]
	r.s.donMu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	d.DonorName = r.donorName(d.DonorID)
	return &d, nil
}

func (r *donations) MarkCollected(_ context.Context, id string, at time.Time) (*model.Donation, error) {
	s := r.s
	s.donMu.Lock()
	d, ok := s.donations[id]
	if !ok {
		s.donMu.Unlock()
		return nil, repository.ErrNotFound
	}
	if d.Status != model.StatusAssigned {
		s.donMu.Unlock()
		return nil, fmt.Errorf("%w: donation %s is %s", repository.ErrStatusConflict, id, d.Status)
	}
	prev := d
	collectedAt := at
	d.Status = model.StatusCollected
	d.CollectedAt = &collectedAt
	s.donations[id] = d
	s.donMu.Unlock()

	r.tx.record(func() {
		s.donMu.Lock()
		s.donations[id] = prev
		s.donMu.Unlock()
	})
	return &d, nil
}

func (r *donations) List(_ context.Context, f repository.DonationFilter) ([]model.Donation, error) {
	r.s.donMu.RLock()
	items := make([]model.Donation, 0)
	for i := len(r.s.donOrder) - 1; i >= 0; i-- {
		d := r.s.donations[r.s.donOrder[i]]
		if f.DonorID != "" && d.DonorID != f.DonorID {
			continue
		}
		if f.ReceiverID != "" && d.AssignedReceiverID != f.ReceiverID {
			continue
		}
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		items = append(items, d)
	}
	r.s.donMu.RUnlock()

	for i := range items {
		items[i].DonorName = r.donorName(items[i].DonorID)
	}
	return items, nil
}

func (r *donations) CountByStatus(context.Context) (model.Stats, error) {
	r.s.donMu.RLock()
	defer r.s.donMu.RUnlock()

	var st model.Stats
	for _, d := range r.s.donations {
		st.Total++
		switch d.Status {
		case model.StatusAssigned:
			st.Assigned++
		case model.StatusCollected:
			st.Collected++
		}
	}
	return st, nil
}
