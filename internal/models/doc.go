// Package models defines the core domain models for fintrack.
//
// # Models
//
//   - User: a registered account, identified by an integer ID and a unique email
//   - Transaction: a dated income or expense record owned by exactly one user
//   - Amount, Date, Category: value types shared by the store, the query builder
//     and the HTTP layer
//
// # Design Principles
//
// 1. **Owner scoping**: a Transaction only ever travels with its OwnerID; lookups
// without an owner do not exist.
// 2. **Exact money**: amounts are integer cents, never floats.
// 3. **Dates without time**: a Date is a calendar day, stored as YYYY-MM-DD text
// so lexical order equals chronological order.
package models
