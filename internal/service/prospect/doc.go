// Package prospect implements prospect intake and lifecycle.
//
// Both intake paths run candidates through identity normalization and the
// identity resolver. Single create asks storage for an existing match and
// fails with a *DuplicateError when one is found. Bulk import loads the
// identity columns of every stored prospect once, resolves each row in
// input order against that snapshot and against rows already admitted from
// the same payload, and writes all admitted rows in one batch.
//
// The storage layer backs the resolver with partial unique indexes; an
// insert that loses a race surfaces as ErrIdentityConflict and is reported
// as a duplicate.
//
// The service layer depends on the Repository interface defined in
// repository.go. It never imports net/http or database/sql directly.
package prospect
