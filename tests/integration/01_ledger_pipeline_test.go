package integration_test

import (
	"testing"

	vybiumledgerstark "github.com/vybium/vybium-ledger-stark/pkg/vybium-ledger-stark"
)

// Test01_LedgerTraceToProof tests the complete flow:
// 1. Generate a ledger trace from a seed
// 2. Check the conservation constraint row by row
// 3. Generate a STARK proof
// 4. Verify the proof
//
// Related example: examples/02_ledger_proof/main.go (user-facing demonstration)
func Test01_LedgerTraceToProof(t *testing.T) {
	t.Log("=== Test 01: Ledger Trace -> STARK Proof ===")

	// Step 1: Configure and generate the trace
	t.Log("Step 1: Generating ledger trace...")
	config := vybiumledgerstark.DefaultConfig().WithRows(256).WithSeed(42)
	if err := config.Validate(); err != nil {
		t.Fatalf("Invalid configuration: %v", err)
	}

	trace, err := vybiumledgerstark.GenerateTrace(config)
	if err != nil {
		t.Fatalf("Failed to generate trace: %v", err)
	}
	t.Logf("  Trace generated: %d rows x %d columns", trace.NumRows(), trace.Width())

	genesis := trace.Row(0)
	t.Logf("  Genesis row: balance=%v, input=%v, output=%v",
		genesis.Balance(), genesis.Input(), genesis.Output())
	if !genesis.Balance().Equal(vybiumledgerstark.NewFieldElement(100000)) {
		t.Fatalf("Genesis balance = %v, want 100000", genesis.Balance())
	}

	// The second balance is fixed by the genesis row:
	// 100000 + 12345 - 54321 = 58024.
	if !trace.Row(1).Balance().Equal(vybiumledgerstark.NewFieldElement(58024)) {
		t.Fatalf("Second balance = %v, want 58024", trace.Row(1).Balance())
	}
	t.Log("  ✓ Genesis row and carried balance match the reference values")

	// Step 2: Check conservation on every transition
	t.Log("Step 2: Checking the conservation constraint...")
	if violations := vybiumledgerstark.CheckTrace(trace); len(violations) != 0 {
		t.Fatalf("Honest trace violates conservation at transitions %v", violations)
	}
	t.Log("  ✓ Every transition conserves balance + input - output")

	// Step 3: Generate the proof
	t.Log("Step 3: Generating STARK proof...")
	t.Log("  This may take a moment...")
	proof, err := vybiumledgerstark.Prove(config, trace)
	if err != nil {
		t.Fatalf("Failed to generate proof: %v", err)
	}
	t.Logf("  ✓ Proof generated: %d items, %d field elements",
		len(proof.Items), proof.Size())

	height, err := proof.GetPaddedHeight()
	if err != nil {
		t.Fatalf("Proof is missing its height: %v", err)
	}
	if height != config.Rows {
		t.Fatalf("Proof height = %d, want %d", height, config.Rows)
	}

	// Step 4: Verify the proof
	t.Log("Step 4: Verifying proof...")
	if err := vybiumledgerstark.Verify(config, proof); err != nil {
		t.Fatalf("Proof verification failed: %v", err)
	}
	t.Log("  ✓ Proof verified successfully!")

	t.Log("")
	t.Log("🎉 SUCCESS: Complete flow works!")
	t.Log("   Trace -> Conservation Check -> Proof -> Verification")
}

// Test03_TraceRoundTrip tests the flat element view:
// 1. Flatten a generated trace
// 2. Rebuild a trace from the flat slice
// 3. Prove and verify the rebuilt trace
func Test03_TraceRoundTrip(t *testing.T) {
	t.Log("=== Test 03: Flat Trace Round Trip ===")

	config := vybiumledgerstark.DefaultConfig().WithRows(16).WithSeed(9)

	t.Log("Step 1: Generating and flattening the trace...")
	trace, err := vybiumledgerstark.GenerateTrace(config)
	if err != nil {
		t.Fatalf("Failed to generate trace: %v", err)
	}
	flat := append([]vybiumledgerstark.FieldElement(nil), trace.Flat()...)
	t.Logf("  Flattened to %d elements", len(flat))

	t.Log("Step 2: Rebuilding the trace from the flat slice...")
	rebuilt, err := vybiumledgerstark.NewTrace(flat)
	if err != nil {
		t.Fatalf("Failed to rebuild trace: %v", err)
	}
	if rebuilt.NumRows() != trace.NumRows() {
		t.Fatalf("Rebuilt trace has %d rows, want %d", rebuilt.NumRows(), trace.NumRows())
	}
	for i := 0; i < trace.NumRows(); i++ {
		for j := 0; j < trace.Width(); j++ {
			if !rebuilt.Row(i).Col(j).Equal(trace.Row(i).Col(j)) {
				t.Fatalf("Rebuilt trace differs at row %d, column %d", i, j)
			}
		}
	}
	t.Log("  ✓ Round trip preserves every cell")

	t.Log("Step 3: Proving and verifying the rebuilt trace...")
	proof, err := vybiumledgerstark.Prove(config, rebuilt)
	if err != nil {
		t.Fatalf("Failed to generate proof: %v", err)
	}
	if err := vybiumledgerstark.Verify(config, proof); err != nil {
		t.Fatalf("Proof verification failed: %v", err)
	}
	t.Log("  ✓ Rebuilt trace proves and verifies")

	t.Log("")
	t.Log("🎉 SUCCESS: Flat view and structured view are interchangeable!")
}
