// Package pastloans implements the Past Loans query, the counterpart of activeloans for returned loans.
package pastloans
