// Package core contains the pure business vocabulary of the library lending service:
// decision results produced by Decide functions, the failure taxonomy every operation reports,
// and the lending policy constants.
//
// Nothing in this package performs I/O. Command handlers load state through the store,
// hand it to a feature's Decide function and apply whatever the resulting DecisionResult asks for.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
