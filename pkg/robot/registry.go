package robot

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/echoman/robots-in-go/pkg/model"
)

// Entry is one enrolled robot.
type Entry struct {
	Vendor string
	Owner  string
	Robot  Robot
}

// Key returns the "owner@vendor" key of the entry.
func (e Entry) Key() string {
	return model.RobotKey(e.Vendor, e.Owner)
}

// Registry holds the enrolled robots, keyed by owner and vendor
type Registry struct {
	mu      sync.RWMutex
	robots  map[string]Entry
	vendors map[string]Constructor
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		robots:  make(map[string]Entry),
		vendors: make(map[string]Constructor),
	}
}

// RegisterVendor installs the constructor used for accounts of vendor.
// Vendor names are case-insensitive.
func (r *Registry) RegisterVendor(vendor string, c Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vendors[strings.ToUpper(vendor)] = c
}

// Vendors returns the vendors a constructor is registered for
func (r *Registry) Vendors() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.vendors))
	for name := range r.vendors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Enroll registers robot for owner at vendor, replacing any robot already
// enrolled under the same key.
func (r *Registry) Enroll(vendor, owner string, robot Robot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := Entry{Vendor: vendor, Owner: owner, Robot: robot}
	r.robots[e.Key()] = e
}

// Get returns the robot enrolled for owner at vendor
func (r *Registry) Get(vendor, owner string) (Robot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.robots[model.RobotKey(vendor, owner)]
	return e.Robot, ok
}

// New builds the robot for account. Accounts of unregistered vendors get a
// DefaultRobot.
func (r *Registry) New(account model.RobotAccount) (Robot, error) {
	r.mu.RLock()
	c, ok := r.vendors[strings.ToUpper(account.Type)]
	r.mu.RUnlock()

	if !ok {
		return DefaultRobot{}, nil
	}
	robot, err := c(account)
	if err != nil {
		return nil, fmt.Errorf("robot %s: %w", account.Key(), err)
	}
	return robot, nil
}

// Load builds and enrolls a robot for every account. Accounts whose robot
// cannot be built are skipped and reported in the returned error.
func (r *Registry) Load(accounts []model.RobotAccount) error {
	entries, err := r.build(accounts)
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, e := range entries {
		r.robots[k] = e
	}
	return err
}

// Replace swaps the enrolled robots for the ones built from accounts.
func (r *Registry) Replace(accounts []model.RobotAccount) error {
	entries, err := r.build(accounts)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.robots = entries
	return err
}

func (r *Registry) build(accounts []model.RobotAccount) (map[string]Entry, error) {
	var errs []error
	entries := make(map[string]Entry, len(accounts))
	for _, a := range accounts {
		robot, err := r.New(a)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		e := Entry{Vendor: a.Type, Owner: a.Account, Robot: robot}
		entries[e.Key()] = e
	}
	return entries, errors.Join(errs...)
}

// Entries returns the enrolled robots ordered by key
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]Entry, 0, len(r.robots))
	for _, e := range r.robots {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key() < entries[j].Key()
	})
	return entries
}

// Len returns the number of enrolled robots
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.robots)
}
