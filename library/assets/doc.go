// Package assets stores uploaded book covers on the local filesystem.
//
// Files are written below <root>/uploads/books and identified by a reference relative to root,
// like "uploads/books/1741600000000000000-5f1c....png", which is also the path they are served under.
package assets
