// Package services contains the core business logic, independent of
// any specific adapter implementation.
package services
