package db

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mewais/archtools.io/pkg/isa"
)

// DbCmd groups the database maintenance commands.
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: "Maintain the instruction database",
	Long: `Commands that rewrite the instruction database file itself: applying
reviewed diffs back onto it and decomposing encodings into named bit
fields.`,
}

func databasePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if path := viper.GetString("database"); path != "" {
		return path
	}
	fmt.Fprintf(os.Stderr, "No database file given. Use --database or set ARCHTOOLS_DATABASE.\n")
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
