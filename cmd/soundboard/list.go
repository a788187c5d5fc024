package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/soundboard/internal/board"
)

var listOpts struct {
	output string
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered sounds and their resolved options",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listOpts.output, "output", "o", "table",
		"Output format: table, json, yaml")
}

func runList(cmd *cobra.Command, args []string) error {
	b, err := getBoard()
	if err != nil {
		return err
	}
	if err := b.Wait(cmd.Context()); err != nil {
		return fmt.Errorf("soundboard not ready: %w", err)
	}

	infos := b.Sounds()

	switch listOpts.output {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case "yaml":
		data, err := yaml.Marshal(infos)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	case "table":
		return renderTable(infos)
	}
	return fmt.Errorf("unknown output format %q", listOpts.output)
}

func renderTable(infos []board.Info) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tENCODING\tSOURCE\tSIZE\tMODIFIED\tOPTIONS")

	for _, info := range infos {
		size, modified := "-", "-"
		if info.URL != "" {
			if st, err := os.Stat(info.URL); err == nil {
				size = humanize.Bytes(uint64(st.Size()))
				modified = humanize.Time(st.ModTime())
			}
		}

		encoding := string(info.Encoding)
		if !info.Prepared {
			encoding = "unavailable"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			info.Name, encoding, info.URL, size, modified, describeOptions(info.Options))
	}
	return w.Flush()
}

// describeOptions renders the resolved options compactly.
func describeOptions(opts board.Options) string {
	out := fmt.Sprintf("vol=%.2f", opts.Volume)
	if opts.Loop {
		out += " loop"
	}
	if opts.Muted {
		out += " muted"
	}
	if opts.Autoplay {
		out += " autoplay"
	}
	if !opts.Preload {
		out += " preload=off"
	}
	return out
}
