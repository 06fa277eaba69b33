package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yama6a/statement-scraper/internal/pkg/model"
	"github.com/yama6a/statement-scraper/internal/pkg/roster"
)

var tablesCmd = &cobra.Command{
	Use:   "tables SYMBOL...",
	Short: "Print the destination table of every family for the given symbols",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, symbol := range roster.Merge(args) {
			for _, family := range model.Families() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", symbol, family, model.TableName(symbol, family))
			}
		}
	},
}
