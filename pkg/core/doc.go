// Package core provides the domain models and interfaces for the schedkit package.
//
// This package contains:
//   - ScheduleItem and Instance data models with GORM annotations
//   - ItemStore interface defining the persistence contract
//   - Error types shared across the library
//
// Most users should import the root package github.com/schedkit/schedkit
// instead of this package directly.
package core
