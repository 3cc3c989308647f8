// Package vybiumledgerstark proves and verifies balance-ledger traces
// with Vybium Ledger STARK.
//
// Vybium Ledger STARK is a zero-knowledge Scalable Transparent
// Argument of Knowledge (zkSTARK) system for a single-account ledger:
// each trace row holds a balance, an incoming amount and an outgoing
// amount, and consecutive rows are tied together by the conservation
// constraint
//
//	balance' = balance + input - output
//
// # Features
//
// - Deterministic ledger trace generation from a seed
// - Algebraic intermediate representation of the conservation rule
// - STARK prover with trace, quotient and randomizer commitments
// - DEEP out-of-domain sampling bound to a FRI low-degree test
// - Transcript-replaying verifier with proof-of-work grinding
// - Tip5 hash function for commitments and Fiat-Shamir
//
// # Quick Start
//
// Generating a trace and proving it:
//
//	config := vybiumledgerstark.DefaultConfig()
//	trace, err := vybiumledgerstark.GenerateTrace(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	proof, err := vybiumledgerstark.Prove(config, trace)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Verifying the proof:
//
//	if err := vybiumledgerstark.Verify(config, proof); err != nil {
//		log.Fatal(err)
//	}
//
// Note that proving does not check the trace. A tampered trace proves
// fine and fails verification; call CheckTrace first when a diagnostic
// is wanted:
//
//	if violations := vybiumledgerstark.CheckTrace(trace); len(violations) > 0 {
//		log.Printf("conservation broken at transitions %v", violations)
//	}
//
// # Architecture
//
// Vybium Ledger STARK uses a hybrid public/private architecture:
//
// - pkg/vybium-ledger-stark/: Public API (this package)
// - internal/vybium-ledger-stark/air/: Ledger constraint system and trace generation
// - internal/vybium-ledger-stark/protocols/: STARK prover, verifier, FRI
//
// The public API provides stable interfaces for:
// - Trace generation and inspection
// - Proof generation and verification
// - Common types and errors
//
// Implementation details in internal/ can be refactored without breaking the public API.
//
// # References
//
// - STARK Paper: https://eprint.iacr.org/2018/046
// - DEEP-FRI Paper: https://eprint.iacr.org/2019/336
// - FRI Paper: https://eccc.weizmann.ac.il/report/2017/134/
//
// # License
//
// See LICENSE file in the repository root.
package vybiumledgerstark
