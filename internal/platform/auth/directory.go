package auth

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown email or wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrUnknownUser is returned when no account has the given user ID.
var ErrUnknownUser = errors.New("unknown user")

// ErrEmailTaken is returned when an email already belongs to another account.
var ErrEmailTaken = errors.New("email is already in use")

// DemoPassword is the password of every seeded account.
const DemoPassword = "password123"

// DemoUsers has one account per role.
var DemoUsers = []User{
	{ID: "usr_admin", Name: "Alex Morgan", Email: "admin@hms.local", Role: RoleAdmin, Title: "Administrator"},
	{ID: "usr_doctor", Name: "Dr. Sarah Wilson", Email: "doctor@hms.local", Role: RoleDoctor, Title: "Cardiologist", Department: "Cardiology"},
	{ID: "usr_nurse", Name: "James Carter", Email: "nurse@hms.local", Role: RoleNurse, Title: "Registered Nurse", Department: "Emergency"},
	{ID: "usr_reception", Name: "Maria Lopez", Email: "reception@hms.local", Role: RoleReceptionist, Title: "Front Desk"},
	{ID: "usr_billing", Name: "Kevin Brooks", Email: "billing@hms.local", Role: RoleBilling, Title: "Billing Specialist"},
	{ID: "usr_pharmacist", Name: "Priya Shah", Email: "pharmacist@hms.local", Role: RolePharmacist, Title: "Pharmacist", Department: "Pharmacy"},
	{ID: "usr_dispatch", Name: "Tom Reed", Email: "dispatch@hms.local", Role: RoleDispatcher, Title: "Dispatcher"},
	{ID: "usr_patient", Name: "John Smith", Email: "patient@hms.local", Role: RolePatient},
}

type account struct {
	user User
	hash []byte
}

// Directory holds user accounts with bcrypt password hashes.
type Directory struct {
	mu       sync.RWMutex
	cost     int
	accounts map[string]*account // keyed by lower-case email
}

// NewDirectory hashes DemoPassword for every user at the given bcrypt cost.
func NewDirectory(cost int, users ...User) (*Directory, error) {
	d := &Directory{cost: cost, accounts: make(map[string]*account, len(users))}
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
		if err != nil {
			return nil, fmt.Errorf("hashing password for %s: %w", u.Email, err)
		}
		d.accounts[strings.ToLower(u.Email)] = &account{user: u, hash: hash}
	}
	return d, nil
}

// Authenticate checks email and password.
func (d *Directory) Authenticate(email, password string) (User, error) {
	d.mu.RLock()
	acc, ok := d.accounts[strings.ToLower(strings.TrimSpace(email))]
	var (
		u    User
		hash []byte
	)
	if ok {
		u, hash = acc.user, acc.hash
	}
	d.mu.RUnlock()
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Lookup finds an account by user ID.
func (d *Directory) Lookup(userID string) (User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, acc := d.byIDLocked(userID)
	if acc == nil {
		return User{}, false
	}
	return acc.user, true
}

// Update replaces the profile of an existing account, re-keying it when the
// email changes. An email held by another account is rejected with
// ErrEmailTaken.
func (d *Directory) Update(u User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	email, acc := d.byIDLocked(u.ID)
	if acc == nil {
		return fmt.Errorf("user %s: %w", u.ID, ErrUnknownUser)
	}
	key := strings.ToLower(strings.TrimSpace(u.Email))
	if other, ok := d.accounts[key]; ok && other != acc {
		return fmt.Errorf("email %s: %w", u.Email, ErrEmailTaken)
	}
	u.Role = acc.user.Role
	acc.user = u
	if key != email {
		delete(d.accounts, email)
		d.accounts[key] = acc
	}
	return nil
}

// ChangePassword verifies current and stores a hash of next.
func (d *Directory) ChangePassword(userID, current, next string) error {
	d.mu.RLock()
	_, acc := d.byIDLocked(userID)
	var hash []byte
	if acc != nil {
		hash = acc.hash
	}
	d.mu.RUnlock()
	if acc == nil {
		return ErrUnknownUser
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(next), d.cost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	// The password changed again since the check.
	if !bytes.Equal(acc.hash, hash) {
		return ErrInvalidCredentials
	}
	acc.hash = hashed
	return nil
}

// Users returns every account ordered by ID.
func (d *Directory) Users() []User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]User, 0, len(d.accounts))
	for _, acc := range d.accounts {
		out = append(out, acc.user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// byIDLocked returns the key and account of userID. d.mu must be held.
func (d *Directory) byIDLocked(userID string) (string, *account) {
	for email, acc := range d.accounts {
		if acc.user.ID == userID {
			return email, acc
		}
	}
	return "", nil
}
