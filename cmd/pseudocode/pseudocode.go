package pseudocode

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mewais/archtools.io/pkg/isa"
)

// PseudocodeCmd groups the pseudocode maintenance commands
var PseudocodeCmd = &cobra.Command{
	Use:     "pseudocode",
	Aliases: []string{"pc"},
	Short:   "Work with instruction pseudocode",
}

// Returns the database path from the command flag, falling back to the
// "database" config key (file or ARCHTOOLS_DATABASE). Exits when neither
// is set.
func databasePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if path := viper.GetString("database"); path != "" {
		return path
	}
	fmt.Fprintln(os.Stderr, "No database file given. Use --database or set ARCHTOOLS_DATABASE.")
	os.Exit(1)
	return ""
}

func loadDatabase(flagValue string) *isa.Database {
	database, err := isa.Load(databasePath(flagValue))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading database: %v\n", err)
		os.Exit(2)
	}
	return database
}
