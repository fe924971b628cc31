// Package caixa implements the reconciliation ledger for a multi-till cash
// operation: a row of numbered tills plus a central vault, each tracked per
// business day.
//
// The core functionalities include:
//   - Movement Ledger: an append-only record of cash supplies, withdrawals
//     (sangrias) and checks per till per day. Movements are immutable except
//     for a one-way void transition that keeps the record for audit.
//   - Till Register: the per-till, per-day opening float, machine-reported
//     count and one-way closing state.
//   - Reconciliation: a stateless engine deriving the expected balance and
//     the divergence against the machine count for one till.
//   - Consolidation: the organization-wide daily summary across all tills
//     and the vault.
//   - Data Persistence: pluggable stores (in-memory, append-only JSONL
//     files, SQLite) behind a single Store interface.
//
// This package serves as the foundational logic for the `cxa` command-line
// tool; it performs no I/O of its own beyond the injected Store.
package caixa
