package main

import (
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/wikimigrate/internal/assets"
)

// ResolveCmd looks file names up in the asset store.
type ResolveCmd struct {
	Root  string   `help:"Asset root directory (defaults to assets.root from the configuration)" type:"existingdir"`
	Names []string `arg:"" help:"File names as written in page markup"`
}

func (r *ResolveCmd) Run(g *Global, root *CLI) error {
	dir := r.Root
	if dir == "" {
		cfg, err := loadConfig(root)
		if err != nil {
			return err
		}
		dir = cfg.Assets.Root
	}
	resolver := assets.NewResolver(os.DirFS(dir), assets.WithLogger(g.Logger))
	return printResolved(os.Stdout, resolver, r.Names)
}

func printResolved(w io.Writer, resolver *assets.Resolver, names []string) error {
	for _, name := range names {
		var err error
		asset, rerr := resolver.Resolve(name)
		if rerr != nil {
			_, err = fmt.Fprintf(w, "%s\texpected at %s\t%v\n", name, assets.Path(assets.Normalize(name)), rerr)
		} else {
			_, err = fmt.Fprintf(w, "%s\t%s\t%s\t%d bytes\n", name, asset.Path, asset.MIMEType, len(asset.Data))
		}
		if err != nil {
			return err
		}
	}
	return nil
}
