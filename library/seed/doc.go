// Package seed loads development fixtures (users with their rights and a few catalog books) from YAML.
//
// Seeding is repeatable: users that already exist, looked up by email, are left alone, and books are
// only inserted into an empty catalog. Passwords are kept in plain text in the fixtures and hashed with
// bcrypt on the way in.
package seed
