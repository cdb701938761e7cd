// Package books implements the Books query: the whole catalog in id order.
//
// An empty catalog is reported as not found rather than as an empty list.
package books
