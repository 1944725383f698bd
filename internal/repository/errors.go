// Package repository implements data access for users, movies, shows, seats
// and bookings on top of database/sql. Sentinel errors defined here and in
// the individual repository files let higher layers distinguish failure
// scenarios with errors.Is instead of string matching.
package repository

import (
	"strings"
)

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (errno 1062) on the named key. The driver embeds the key name in the
// message ("... for key 'users.username'"), which is enough to tell a
// username collision from an email collision without a driver-specific
// error type.
func isDuplicateKey(err error, key string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") && strings.Contains(msg, key)
}
