// Package models contains the GORM persistence models. Domain entities stay
// free of storage tags; each model converts to and from its entity with
// ToDomain / FromDomain.
package models
