package main

import (
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/wikimigrate/internal/slug"
)

// SlugCmd prints the slug the target platform derives for each title.
type SlugCmd struct {
	Titles []string `arg:"" help:"Page titles"`
}

func (s *SlugCmd) Run(_ *Global) error {
	return printSlugs(os.Stdout, s.Titles)
}

func printSlugs(w io.Writer, titles []string) error {
	for _, title := range titles {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", title, slug.Slugify(title)); err != nil {
			return err
		}
	}
	return nil
}
