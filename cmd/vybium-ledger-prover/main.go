package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	vybiumledgerstark "github.com/vybium/vybium-ledger-stark/pkg/vybium-ledger-stark"
)

// proverResult is the JSON summary written to stdout
type proverResult struct {
	Rows               int    `json:"rows"`
	Seed               uint64 `json:"seed"`
	FinalBalance       uint64 `json:"final_balance"`
	ProofItems         int    `json:"proof_items"`
	ProofSizeElements  int    `json:"proof_size_elements"`
	ProvingTimeMs      int64  `json:"proving_time_ms"`
	VerificationTimeMs int64  `json:"verification_time_ms"`
	Verified           bool   `json:"verified"`
}

func main() {
	rows := flag.Int("rows", 1024, "number of ledger rows (must be a power of 2)")
	seed := flag.Uint64("seed", 0, "seed for the deterministic trace sampler")
	out := flag.String("out", "", "write the result JSON to this file instead of stdout")
	flag.Parse()

	config := vybiumledgerstark.DefaultConfig().WithRows(*rows).WithSeed(*seed)
	if err := config.Validate(); err != nil {
		fatal(fmt.Sprintf("Invalid configuration: %v", err))
	}

	logStderr(fmt.Sprintf("Generating %d-row ledger trace (seed %d)...", config.Rows, config.Seed))
	trace, err := vybiumledgerstark.GenerateTrace(config)
	if err != nil {
		fatal(fmt.Sprintf("Trace generation failed: %v", err))
	}

	if violations := vybiumledgerstark.CheckTrace(trace); len(violations) > 0 {
		fatal(fmt.Sprintf("Generated trace breaks conservation at transitions %v", violations))
	}

	finalBalance := trace.Row(trace.NumRows() - 1).Balance()
	logStderr(fmt.Sprintf("Trace generated, final balance %s", finalBalance))

	logStderr("Generating proof...")
	proveStart := time.Now()
	proof, err := vybiumledgerstark.Prove(config, trace)
	if err != nil {
		fatal(fmt.Sprintf("Proof generation failed: %v", err))
	}
	provingTime := time.Since(proveStart)
	logStderr(fmt.Sprintf("Proof generated: %d items, %d field elements, %s",
		len(proof.Items), proof.Size(), provingTime))

	logStderr("Verifying proof...")
	verifyStart := time.Now()
	if err := vybiumledgerstark.Verify(config, proof); err != nil {
		fatal(fmt.Sprintf("Verification failed: %v", err))
	}
	verificationTime := time.Since(verifyStart)
	logStderr("Proof verified")

	result := proverResult{
		Rows:               config.Rows,
		Seed:               config.Seed,
		FinalBalance:       finalBalance.Value(),
		ProofItems:         len(proof.Items),
		ProofSizeElements:  proof.Size(),
		ProvingTimeMs:      provingTime.Milliseconds(),
		VerificationTimeMs: verificationTime.Milliseconds(),
		Verified:           true,
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fatal(fmt.Sprintf("Failed to serialize result: %v", err))
	}
	encoded = append(encoded, '\n')

	if *out != "" {
		if err := os.WriteFile(*out, encoded, 0o644); err != nil {
			fatal(fmt.Sprintf("Failed to write %s: %v", *out, err))
		}
		logStderr(fmt.Sprintf("Result written to %s", *out))
		return
	}
	os.Stdout.Write(encoded)
}

func logStderr(msg string) {
	fmt.Fprintln(os.Stderr, "ledger-prover:", msg)
}

func fatal(msg string) {
	logStderr("ERROR: " + msg)
	os.Exit(1)
}
