package main

import (
	"fmt"
	"strings"

	"github.com/ashvardanian/SubstringSearchBenchmark/eval"
	"github.com/ashvardanian/SubstringSearchBenchmark/ops"
	"github.com/ashvardanian/SubstringSearchBenchmark/pkg/ux"
	"github.com/spf13/cobra"
)

func runList(_ *cobra.Command, _ []string) {
	capabilities := "none"
	if caps := ops.Capabilities(); len(caps) > 0 {
		capabilities = strings.Join(caps, ", ")
	}
	ux.Field("CPU features", capabilities)

	for _, family := range ops.Catalog() {
		ux.Info(fmt.Sprintf("%s (%s, %s bytes)", family.Name, family.Kind, family.Mode))
		switch family.Kind {
		case ops.KindUnary:
			listCandidates(family.Unary)
		case ops.KindBinary:
			listCandidates(family.Binary)
		}
	}
}

// listCandidates prints one line per candidate in registration order,
// flagging the family baseline and the variants that get verified
// against it before timing. Candidate names already carry the family
// prefix ("checksum/swar").
func listCandidates[O any](reg *eval.Registry[O]) {
	baseline := reg.BaselineIndex()
	for i, candidate := range reg.Candidates() {
		note := ""
		switch {
		case i == baseline:
			note = "baseline"
		case candidate.NeedsVerification:
			note = "verified"
		}
		ux.ListItem(candidate.Name, note)
	}
}
