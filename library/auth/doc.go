// Package auth authenticates users of the library lending service.
//
// Passwords are stored as bcrypt hashes. A successful login issues an HS256 signed JWT whose
// subject is the user id; the HTTP layer verifies the token and hands the user id to the
// command and query handlers, which trust it.
package auth
