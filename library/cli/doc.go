// Package cli holds the cobra commands of the librarian binary: serve, migrate, seed and user create.
//
// Configuration comes from LIBRARY_* environment variables, optionally read from a .env file.
package cli
