package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/jcdickinson/noogle/internal/theme"
	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark]",
	Short:     "Print the resolved options of a theme variant",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(theme.VariantLight), string(theme.VariantDark)},
	Run:       runTheme,
}

var themeCSS bool

func init() {
	themeCmd.Flags().BoolVar(&themeCSS, "css", false, "print the stylesheet instead of JSON")
}

func runTheme(cmd *cobra.Command, args []string) {
	variant := theme.VariantDark
	if len(args) == 1 {
		variant = theme.Variant(args[0])
	}

	if themeCSS {
		css, err := theme.CSS(variant)
		if err != nil {
			log.Fatalf("theme failed: %v", err)
		}
		fmt.Print(css)
		return
	}

	opts, err := theme.Resolve(variant)
	if err != nil {
		log.Fatalf("theme failed: %v", err)
	}
	out, _ := json.MarshalIndent(opts, "", "  ")
	fmt.Println(string(out))
}
