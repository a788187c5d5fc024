package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/soundboard/internal/browser"
	"github.com/jmylchreest/soundboard/internal/format"
	"github.com/jmylchreest/soundboard/internal/media"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "Show the format catalog and what this host can play",
	RunE:  runFormats,
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func runFormats(cmd *cobra.Command, args []string) error {
	driver := media.NewBeepDriver(logger)

	family := browser.Detect(driver.Identity())
	order := format.Preferred(family)

	name := string(family)
	if name == "" {
		name = "unknown"
	}
	fmt.Printf("host family: %s\n", name)
	fmt.Printf("preference order: %v\n\n", order)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ENCODING\tCAPABILITY QUERY\tPLAYABLE")
	for _, enc := range order {
		query, err := format.MIMEQuery(enc)
		if err != nil {
			return err
		}
		answer := string(driver.CanPlayType(query))
		if answer == "" {
			answer = "no"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", enc, query, answer)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if enc, err := format.FirstPlayable(media.Caps{D: driver}, order); err == nil {
		fmt.Printf("\nnegotiated encoding: %s (%s)\n", enc, format.SourceMIME(enc))
	} else {
		fmt.Println("\nno playable format on this host")
	}
	return nil
}
