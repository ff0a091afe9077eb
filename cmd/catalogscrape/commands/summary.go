package commands

import (
	"catalogscrape/lib/catalog"
	"catalogscrape/lib/coursestore"
	"catalogscrape/lib/serviceutil"
	"catalogscrape/lib/tabular"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var (
	summaryYear   int
	summaryFromDb string
)

func init() {
	summaryCmd.Flags().IntVar(&summaryYear, "year", 0, "Summarize <output_dir>/courses_<year>_<year+1>.csv, or the stored run with --from-db.")
	summaryCmd.Flags().StringVar(&summaryFromDb, "from-db", "", "Read the run from this sqlite path or libsql:// url instead of a CSV file.")
	rootCmd.AddCommand(summaryCmd)
}

type departmentSummary struct {
	Department string
	Courses    int
	Tagged     int
	Enrollment map[catalog.Quarter]int
}

// summarize groups courses by department, sorted by department name.
func summarize(courses []catalog.Course) ([]departmentSummary, departmentSummary) {
	byDepartment := map[string]*departmentSummary{}
	total := departmentSummary{Department: "Total", Enrollment: map[catalog.Quarter]int{}}

	for _, c := range courses {
		summary, ok := byDepartment[c.Department]
		if !ok {
			summary = &departmentSummary{
				Department: c.Department,
				Enrollment: map[catalog.Quarter]int{},
			}
			byDepartment[c.Department] = summary
		}

		summary.Courses++
		total.Courses++
		if c.Tagged() {
			summary.Tagged++
			total.Tagged++
		}
		for q, n := range c.Enrollment {
			summary.Enrollment[q] += n
			total.Enrollment[q] += n
		}
	}

	out := make([]departmentSummary, 0, len(byDepartment))
	for _, summary := range byDepartment {
		out = append(out, *summary)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Department < out[j].Department
	})
	return out, total
}

func summaryRow(s departmentSummary) table.Row {
	department := s.Department
	if department == "" {
		department = "(none)"
	}
	row := table.Row{department, s.Courses, s.Tagged}
	for _, q := range catalog.Quarters {
		row = append(row, s.Enrollment[q])
	}
	return row
}

func renderSummary(out io.Writer, title string, courses []catalog.Course) {
	departments, total := summarize(courses)

	t := newTable(out)
	t.SetTitle(title)
	header := table.Row{"Department", "Courses", "Tagged"}
	for _, q := range catalog.Quarters {
		header = append(header, q.Season())
	}
	t.AppendHeader(header)
	for _, d := range departments {
		t.AppendRow(summaryRow(d))
	}
	t.AppendFooter(summaryRow(total))

	configs := []table.ColumnConfig{}
	for i := 2; i <= len(header); i++ {
		configs = append(configs, table.ColumnConfig{Number: i, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)
	t.Render()
}

func readCsv(path string) ([]catalog.Course, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tabular.Decode(f)
}

var summaryCmd = &cobra.Command{
	Use:   "summary [path/to/courses.csv | --year <start year> [--from-db <path/to/runs.db>]]",
	Short: "Reads a written courses file the way the visualization does and prints per department totals.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if summaryFromDb != "" {
			if summaryYear == 0 {
				serviceutil.Fatal("--from-db requires --year", nil)
			}
			database, err := coursestore.Open(cmd.Context(), summaryFromDb)
			if err != nil {
				serviceutil.Fatal("failed to open db", err)
			}
			defer database.Close()

			run, err := coursestore.NewStore(database).Pull(cmd.Context(), summaryYear)
			if err != nil {
				serviceutil.Fatal("failed to read stored run", err)
			}
			title := fmt.Sprintf(
				"%d-%d (stored %s, %d pages, %d failed)",
				run.Year, run.Year+1,
				run.Time.Format("2006-01-02 15:04"),
				run.PageCount, len(run.Failed),
			)
			renderSummary(cmd.OutOrStdout(), title, run.Courses)
			return
		}

		var path string
		switch {
		case len(args) == 1:
			path = args[0]
		case summaryYear != 0:
			path = filepath.Join(cfg.OutputDir, tabular.FileName(summaryYear))
		default:
			serviceutil.Fatal("either a path or --year is required", nil)
		}

		courses, err := readCsv(path)
		if err != nil {
			serviceutil.Fatal("failed to read courses file", err)
		}
		renderSummary(cmd.OutOrStdout(), path, courses)
	},
}
