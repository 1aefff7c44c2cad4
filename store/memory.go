package store

import (
	"context"
	"strings"
	"sync"

	"github.com/google/btree"

	"github.com/sicko7947/contactbook"
)

const btreeDegree = 32

// MemoryStore implements contactbook.Repository on an in-process ordered map.
// Iteration follows the natural ordering of contact names.
type MemoryStore struct {
	contacts *btree.BTreeG[*contactbook.Contact]
	opts     options
	mu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory contact store
func NewMemoryStore(opts ...Option) contactbook.Repository {
	return &MemoryStore{
		contacts: btree.NewG(btreeDegree, lessByName),
		opts:     applyOptions(string(contactbook.BackendMemory), opts),
	}
}

func lessByName(a, b *contactbook.Contact) bool {
	return strings.Compare(a.Name, b.Name) < 0
}

func probe(name string) *contactbook.Contact {
	return &contactbook.Contact{Name: name}
}

// Mutations

func (s *MemoryStore) Add(ctx context.Context, name, phoneRaw, email string) error {
	contact, err := contactbook.ValidContact(name, phoneRaw, email)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.contacts.ReplaceOrInsert(contact)
	contactbook.LogContactAdded(s.opts.logger, name)
	return nil
}

func (s *MemoryStore) UpdateEmail(ctx context.Context, name, newEmail string) (bool, error) {
	email, err := contactbook.ValidEmail(newEmail)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	contact, found := s.contacts.Get(probe(name))
	if found {
		contact.Email = email
	}
	contactbook.LogContactUpdated(s.opts.logger, name, AttrEmail, found)
	return found, nil
}

func (s *MemoryStore) UpdatePhone(ctx context.Context, name, newPhoneRaw string) (bool, error) {
	phoneNo, err := contactbook.ValidPhone(newPhoneRaw)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	contact, found := s.contacts.Get(probe(name))
	if found {
		contact.PhoneNo = phoneNo
	}
	contactbook.LogContactUpdated(s.opts.logger, name, AttrPhoneNo, found)
	return found, nil
}

func (s *MemoryStore) Delete(ctx context.Context, name string) (*contactbook.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, found := s.contacts.Delete(probe(name))
	contactbook.LogContactDeleted(s.opts.logger, name, found)
	if !found {
		return nil, nil
	}
	return removed, nil
}

// Queries

func (s *MemoryStore) Get(ctx context.Context, name string) (*contactbook.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contact, found := s.contacts.Get(probe(name))
	if !found {
		return nil, nil
	}
	return contact.Clone(), nil
}

func (s *MemoryStore) List(ctx context.Context, pageNo, pageSize int) ([]*contactbook.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start, end, ok := contactbook.PageBounds(s.contacts.Len(), pageNo, pageSize)
	if !ok {
		return []*contactbook.Contact{}, nil
	}

	page := make([]*contactbook.Contact, 0, end-start)
	index := 0
	s.contacts.Ascend(func(contact *contactbook.Contact) bool {
		if index >= start {
			page = append(page, contact.Clone())
		}
		index++
		return index < end
	})

	return page, nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.contacts.Len(), nil
}

// Bulk operations

func (s *MemoryStore) Export(ctx context.Context, path string) error {
	s.mu.RLock()
	contacts := make([]*contactbook.Contact, 0, s.contacts.Len())
	s.contacts.Ascend(func(contact *contactbook.Contact) bool {
		contacts = append(contacts, contact.Clone())
		return true
	})
	s.mu.RUnlock()

	if err := WriteBulkFile(path, contacts); err != nil {
		return err
	}

	contactbook.LogContactsExported(s.opts.logger, path, len(contacts))
	return nil
}

func (s *MemoryStore) Import(ctx context.Context, path string) error {
	contacts, err := ReadBulkFile(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, contact := range contacts {
		s.contacts.ReplaceOrInsert(contact.Clone())
	}

	contactbook.LogContactsImported(s.opts.logger, path, len(contacts))
	return nil
}
