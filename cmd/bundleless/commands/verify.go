package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/bundleless/internal/config"
	ferrors "git.home.luguber.info/inful/bundleless/internal/foundation/errors"
	"git.home.luguber.info/inful/bundleless/internal/verify"
)

// VerifyCmd implements the 'verify' command.
type VerifyCmd struct {
	ProjectFlags `embed:""`
}

func (v *VerifyCmd) Run(global *Global, root *CLI) error {
	cfg, err := config.Load(v.Root, v.overrides(root.Verbose))
	if err != nil {
		return err
	}
	res, err := verify.Dir(context.Background(), cfg.OutputDir)
	if err != nil {
		return err
	}
	out := global.stdout()
	for _, p := range res.Problems {
		_, _ = fmt.Fprintf(out, "%s: %s (%s)\n", p.Route, p.Ref, p.Reason)
	}
	_, _ = fmt.Fprintf(out, "Checked %d document(s), %d reference(s), %d broken\n", res.Documents, res.Refs, len(res.Problems))
	if !res.OK() {
		return ferrors.AssetError("broken references in generated output").
			WithContext("path", cfg.OutputDir).
			WithContext("count", len(res.Problems)).Build()
	}
	return nil
}
