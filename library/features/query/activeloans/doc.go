// Package activeloans implements the Active Loans query: loans that are not returned yet, most recently updated first.
//
// With scope "all" librarians and admins see the loans of every student, with scope "own" a
// student sees their own loans. No matching loan is reported as not found.
package activeloans
