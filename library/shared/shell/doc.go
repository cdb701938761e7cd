// Package shell holds the imperative shell shared by all feature slices: handler contracts,
// handler results, the rights check every operation starts with, the mapping from store errors
// to the failure taxonomy, and the observability helpers used by the observable wrappers.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
