// Package models defines the core domain values for grouptab.
//
// All monetary values are Money: signed 64-bit integers in minor
// currency units (cents). Floating point only appears transiently
// while parsing human-entered decimal strings, never in stored state.
//
// The types here are transient values owned by the call that produced
// them: a Target comes out of the directive parser, a Change comes out
// of the expense allocator and is consumed when the ledger applies it,
// a Settlement is a payment recommendation produced by the planner.
// Stateful ownership (member balances, the transaction log) lives in
// the ledger package.
package models
