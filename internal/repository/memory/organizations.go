package memory

import (
	"context"

	"zerowaste/internal/model"
	"zerowaste/internal/repository"
)

type organizations struct {
	s  *Store
	tx *tx
}

func (r *organizations) Create(_ context.Context, org *model.Organization) (*model.Organization, error) {
	s := r.s
	s.orgMu.Lock()
	defer s.orgMu.Unlock()

	if _, ok := s.orgNames[org.Name]; ok {
		return nil, repository.ErrDuplicate
	}
	if _, ok := s.orgs[org.ID]; ok {
		return nil, repository.ErrDuplicate
	}
	stored := *org
	if stored.IsReceiver() {
		if err := s.ledger.Open(stored.ID, stored.OriginalCapacity); err != nil {
			return nil, err
		}
		stored.Capacity = stored.OriginalCapacity
	} else {
		stored.Capacity, stored.OriginalCapacity = 0, 0
	}
	s.orgs[stored.ID] = stored
	s.orgNames[stored.Name] = stored.ID
	s.orgOrder = append(s.orgOrder, stored.ID)

	r.tx.record(func() { s.removeOrganization(stored.ID) })
	return &stored, nil
}

func (s *Store) removeOrganization(id string) {
	s.orgMu.Lock()
	defer s.orgMu.Unlock()
	org, ok := s.orgs[id]
	if !ok {
		return
	}
	delete(s.orgs, id)
	delete(s.orgNames, org.Name)
	for i, oid := range s.orgOrder {
		if oid == id {
			s.orgOrder = append(s.orgOrder[:i], s.orgOrder[i+1:]...)
			break
		}
	}
	s.ledger.Close(id)
}

// withBalance fills in the live capacity of a receiver from the ledger.
func (s *Store) withBalance(org model.Organization) model.Organization {
	if !org.IsReceiver() {
		return org
	}
	if b, err := s.ledger.Balance(org.ID); err == nil {
		org.Capacity = b.Remaining
		org.OriginalCapacity = b.Original
	}
	return org
}

func (r *organizations) FindByID(_ context.Context, id string) (*model.Organization, error) {
	r.s.orgMu.RLock()
	org, ok := r.s.orgs[id]
	r.s.orgMu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := r.s.withBalance(org)
	return &out, nil
}

func (r *organizations) FindByName(ctx context.Context, name string) (*model.Organization, error) {
	r.s.orgMu.RLock()
	id, ok := r.s.orgNames[name]
	r.s.orgMu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// ListReceivers returns receivers in insertion order.
func (r *organizations) ListReceivers(context.Context) ([]model.Organization, error) {
	r.s.orgMu.RLock()
	receivers := make([]model.Organization, 0, len(r.s.orgOrder))
	for _, id := range r.s.orgOrder {
		if org := r.s.orgs[id]; org.IsReceiver() {
			receivers = append(receivers, org)
		}
	}
	r.s.orgMu.RUnlock()

	for i := range receivers {
		receivers[i] = r.s.withBalance(receivers[i])
	}
	return receivers, nil
}
