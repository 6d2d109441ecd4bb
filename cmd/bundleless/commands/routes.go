package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"git.home.luguber.info/inful/bundleless/internal/config"
	ferrors "git.home.luguber.info/inful/bundleless/internal/foundation/errors"
	"git.home.luguber.info/inful/bundleless/internal/routes"
)

// RoutesCmd implements the 'routes' command.
type RoutesCmd struct {
	ProjectFlags `embed:""`
	JSON         bool `name:"json" help:"Print routes as a JSON array."`
}

func (r *RoutesCmd) Run(global *Global, root *CLI) error {
	cfg, err := config.Load(r.Root, r.overrides(root.Verbose))
	if err != nil {
		return err
	}
	found := routes.SortByPath(routes.NewDiscoverer(cfg.PageFiles, global.logger()).Discover(cfg.SourceDir))
	return printRoutes(global.stdout(), cfg.SourceDir, found, r.JSON)
}

type routeView struct {
	routes.Route
	Name string `json:"name"`
}

func printRoutes(w io.Writer, sourceDir string, found []routes.Route, asJSON bool) error {
	if asJSON {
		views := make([]routeView, 0, len(found))
		for _, rt := range found {
			views = append(views, routeView{Route: rt, Name: rt.Name()})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(views); err != nil {
			return ferrors.InternalError("encode routes").WithCause(err).Build()
		}
		return nil
	}

	if len(found) == 0 {
		_, _ = fmt.Fprintf(w, "No routes found in %s\n", sourceDir)
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ROUTE\tNAME\tSOURCE")
	for _, rt := range found {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", rt.Path, rt.Name(), rt.SourceFile)
	}
	if err := tw.Flush(); err != nil {
		return ferrors.InternalError("write routes").WithCause(err).Build()
	}
	return nil
}
