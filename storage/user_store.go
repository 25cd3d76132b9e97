package storage

import (
	"os"
	"sync"

	"github.com/LorenaGrigorcea/mern-bookstore-backend/apperrors"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/models"
)

// usersDoc is the on-disk shape of the users file.
type usersDoc struct {
	Users []models.User `json:"users"`
}

// UserStore reads the user collection. Accounts are managed externally;
// this service only looks them up at login.
type UserStore struct {
	mu   sync.Mutex
	file jsonFile
}

// NewUserStore creates a store backed by the JSON document at path.
func NewUserStore(path string) *UserStore {
	return &UserStore{file: jsonFile{path: path}}
}

// FindAdmin returns the user with the given email and the admin role.
// The boolean is false when no such user exists, leaving the caller to
// answer without revealing whether the email is known.
func (s *UserStore) FindAdmin(email string) (models.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc usersDoc
	err := s.file.load(&doc)
	if err != nil && !os.IsNotExist(err) {
		return models.User{}, false, apperrors.Wrap(apperrors.Storage, "Failed to read users", err)
	}

	for _, u := range doc.Users {
		if u.Email == email && u.Role == "admin" {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}
