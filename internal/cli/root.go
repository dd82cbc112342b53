// Package cli implements the passgen command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/service"
)

type generateFlags struct {
	length    int
	uppercase bool
	lowercase bool
	numbers   bool
	symbols   bool
	count     int
}

// config builds the generation config from the flags. With no class flag set,
// every class is enabled.
func (f generateFlags) config() crypto.Config {
	var classes crypto.ClassSet
	if f.uppercase {
		classes = classes.With(crypto.Uppercase)
	}
	if f.lowercase {
		classes = classes.With(crypto.Lowercase)
	}
	if f.numbers {
		classes = classes.With(crypto.Numbers)
	}
	if f.symbols {
		classes = classes.With(crypto.Symbols)
	}
	if classes.Empty() {
		classes = crypto.AllClassSet()
	}
	return crypto.Config{Classes: classes, Length: f.length}
}

// NewRootCommand returns the passgen command. A nil gen reads from crypto/rand.
func NewRootCommand(gen *crypto.Generator) *cobra.Command {
	if gen == nil {
		gen = crypto.NewGenerator(nil)
	}

	var flags generateFlags
	cmd := &cobra.Command{
		Use:           "passgen",
		Short:         "Generate random passwords",
		Long:          "passgen prints random passwords drawn uniformly from the selected character classes.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := flags.config()
			if err := service.ValidateConfig(cfg); err != nil {
				return err
			}
			if flags.count < 1 {
				return fmt.Errorf("count must be at least 1, got %d", flags.count)
			}

			out := cmd.OutOrStdout()
			for i := 0; i < flags.count; i++ {
				fmt.Fprintln(out, gen.GenerateConfig(cfg))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVarP(&flags.length, "length", "l", crypto.DefaultLength, fmt.Sprintf("password length (%d-%d)", crypto.MinLength, crypto.MaxLength))
	f.BoolVarP(&flags.uppercase, "uppercase", "u", false, "include uppercase letters")
	f.BoolVarP(&flags.lowercase, "lowercase", "L", false, "include lowercase letters")
	f.BoolVarP(&flags.numbers, "numbers", "n", false, "include digits")
	f.BoolVarP(&flags.symbols, "symbols", "s", false, "include symbols")
	f.IntVarP(&flags.count, "count", "c", 1, "number of passwords to print")

	cmd.AddCommand(newInteractiveCommand(gen))
	return cmd
}
