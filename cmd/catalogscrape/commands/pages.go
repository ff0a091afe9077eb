package commands

import (
	"catalogscrape/lib/scrapers/explorecourses"
	"catalogscrape/lib/serviceutil"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var pagesYear int

func init() {
	pagesCmd.Flags().IntVar(&pagesYear, "year", 0, "The calendar year the academic year starts in.")
	pagesCmd.MarkFlagRequired("year")
	rootCmd.AddCommand(pagesCmd)
}

var pagesCmd = &cobra.Command{
	Use:   "pages --year <start year>",
	Short: "Counts the listing pages of an academic year and prints their urls.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client, err := newClient()
		if err != nil {
			serviceutil.Fatal("failed to initialize catalog client", err)
		}

		year := explorecourses.AcademicYear(pagesYear)
		count, err := client.PageCount(cmd.Context(), year)
		if err != nil {
			serviceutil.Fatal("failed to count listing pages", err)
		}

		t := newTable(cmd.OutOrStdout())
		t.SetTitle(fmt.Sprintf("%s: %d pages", year, count))
		t.AppendHeader(table.Row{"Page", "Url"})
		for page := 0; page < count; page++ {
			t.AppendRow(table.Row{page, client.PageUrl(year, page)})
		}
		t.Render()
	},
}
