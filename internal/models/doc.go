// Package models defines the core domain values for splitledger.
//
// # Ledger
//
// A Ledger is the whole persisted document: the current member set plus two
// append-only logs.
//   - Expense: money fronted by a payer and owed back by weighted shares
//   - Settlement: a cash transfer already made from one member to another
//
// Members are identified by their normalized name (trimmed, title case). Records
// keep referring to a member by name after that member leaves the group.
//
// # Immutability
//
// Ledger values are never mutated in place. Every With/Without method returns a
// new Ledger that shares no slices or maps with the receiver, so a snapshot
// handed to a caller stays valid while the store moves on.
package models
