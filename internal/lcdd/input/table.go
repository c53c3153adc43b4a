// Package input implements the key reservation table and event routing
// described in spec section 4.7.
package input

import "github.com/lcdd/lcdd/internal/lcdd/protoerr"

// ServerOwner marks a reservation as belonging to the server itself
// (spec section 4.7: "Server-owned reservations for navigation keys").
const ServerOwner uint64 = 0

// Reservation is one claim on a key name.
type Reservation struct {
	ClientID  uint64
	Exclusive bool
}

// Table maps key name to the list of reservations held on it (spec
// section 3, KeyReservation; section 4.7 for the reservation rules).
type Table struct {
	reservations map[string][]Reservation
	// bySource tracks which screen (if any) auto-reserved a key on a
	// client's behalf via key_add, so the reservation can be released
	// precisely when that screen is destroyed (spec section 4.7: "release
	// them when it is destroyed") without disturbing a reservation the
	// same client made directly via client_add_key.
	bySource map[sourceKey]struct{}
}

type sourceKey struct {
	key      string
	clientID uint64
	screenID string
}

// New creates an empty reservation table.
func New() *Table {
	return &Table{
		reservations: make(map[string][]Reservation),
		bySource:     make(map[sourceKey]struct{}),
	}
}

// AddExclusive reserves key for clientID exclusively; it fails unless the
// list is currently empty (spec section 4.7).
func (t *Table) AddExclusive(key string, clientID uint64) error {
	if len(t.reservations[key]) > 0 {
		return protoerr.KeyAlreadyReserved()
	}
	t.reservations[key] = append(t.reservations[key], Reservation{ClientID: clientID, Exclusive: true})
	return nil
}

// AddShared reserves key for clientID non-exclusively; it fails if an
// exclusive reservation is already held (spec section 4.7).
func (t *Table) AddShared(key string, clientID uint64) error {
	for _, r := range t.reservations[key] {
		if r.Exclusive {
			return protoerr.KeyAlreadyReserved()
		}
		if r.ClientID == clientID {
			return nil // already held, client_add_key is idempotent for shared re-adds
		}
	}
	t.reservations[key] = append(t.reservations[key], Reservation{ClientID: clientID, Exclusive: false})
	return nil
}

// Del releases clientID's reservation(s) of key (spec section 4.7,
// client_del_key). Returns protoerr.KeyNotReserved if clientID held none.
func (t *Table) Del(key string, clientID uint64) error {
	list := t.reservations[key]
	out := list[:0]
	removed := false
	for _, r := range list {
		if r.ClientID == clientID {
			removed = true
			continue
		}
		out = append(out, r)
	}
	if !removed {
		return protoerr.KeyNotReserved()
	}
	if len(out) == 0 {
		delete(t.reservations, key)
	} else {
		t.reservations[key] = out
	}
	return nil
}

// AddFromScreen auto-reserves key as shared on behalf of a screen's
// key_add list (spec section 4.7: "Per-screen key_add lists... cause the
// server to auto-reserve those keys as shared for the client while the
// screen exists"). It is a no-op (not an error) if already reserved
// exclusively by someone else — key_add is a hint, not a hard requirement.
func (t *Table) AddFromScreen(key string, clientID uint64, screenID string) {
	_ = t.AddShared(key, clientID)
	t.bySource[sourceKey{key, clientID, screenID}] = struct{}{}
}

// ReleaseScreen releases every key a now-destroyed screen auto-reserved.
func (t *Table) ReleaseScreen(clientID uint64, screenID string) {
	for sk := range t.bySource {
		if sk.clientID == clientID && sk.screenID == screenID {
			delete(t.bySource, sk)
			_ = t.Del(sk.key, clientID)
		}
	}
}

// ReleaseClient releases every reservation (direct or screen-sourced) held
// by clientID, as happens on disconnect (spec section 4.4/4.7).
func (t *Table) ReleaseClient(clientID uint64) {
	for key, list := range t.reservations {
		out := list[:0]
		for _, r := range list {
			if r.ClientID != clientID {
				out = append(out, r)
			}
		}
		if len(out) == 0 {
			delete(t.reservations, key)
		} else {
			t.reservations[key] = out
		}
	}
	for sk := range t.bySource {
		if sk.clientID == clientID {
			delete(t.bySource, sk)
		}
	}
}

// Route resolves who should receive a key event, per the precedence in
// spec section 4.7: an exclusive holder wins outright; otherwise every
// shared holder gets it; otherwise, if the key is server-owned, the server
// handles it; otherwise it is dropped silently.
func (t *Table) Route(key string) (exclusive uint64, hasExclusive bool, shared []uint64, serverOwned bool) {
	list := t.reservations[key]
	for _, r := range list {
		if r.Exclusive {
			return r.ClientID, true, nil, r.ClientID == ServerOwner
		}
	}
	for _, r := range list {
		if r.ClientID == ServerOwner {
			serverOwned = true
			continue
		}
		shared = append(shared, r.ClientID)
	}
	return 0, false, shared, serverOwned
}

// Reserved reports whether any reservation exists at all for key.
func (t *Table) Reserved(key string) bool {
	return len(t.reservations[key]) > 0
}
