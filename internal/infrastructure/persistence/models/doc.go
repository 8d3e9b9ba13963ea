// Package models contains GORM persistence models that map to database tables.
// They are kept separate from domain entities so the domain layer stays free
// of ORM tags.
//
// Tables:
//   - products, packages, batches: the catalog tree
//   - submissions: the append-only redemption log
//
// Foreign keys are RESTRICT. Deleting a subtree is done by the repositories
// in child-first order inside one transaction.
package models
