// Package helper provides test fixtures and observability spies for tests against the library store.
package helper
