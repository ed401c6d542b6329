package command

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

var (
	titleFilter repository.TitleFilter
	page        int
	search      string
)

var titlesCmd = &cobra.Command{
	Use:   "titles",
	Short: "List titles, newest first, with their rating",
	Args:  cobra.NoArgs,
	RunE: run(func(a *app, out io.Writer, _ []string) error {
		f := titleFilter
		f.OrderBy = "-year"
		list, total, err := a.titles.List(context.Background(), f, page, pageSize)
		if err != nil {
			return fmt.Errorf("list titles: %w", err)
		}
		printTitles(out, list, total)
		return nil
	}),
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories by name",
	Args:  cobra.NoArgs,
	RunE: run(func(a *app, out io.Writer, _ []string) error {
		list, total, err := a.categories.List(context.Background(), search, page, pageSize)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		rows := make([][2]string, 0, len(list))
		for _, c := range list {
			rows = append(rows, [2]string{c.Name, c.Slug})
		}
		printNamed(out, "categories", rows, total)
		return nil
	}),
}

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List genres by name",
	Args:  cobra.NoArgs,
	RunE: run(func(a *app, out io.Writer, _ []string) error {
		list, total, err := a.genres.List(context.Background(), search, page, pageSize)
		if err != nil {
			return fmt.Errorf("list genres: %w", err)
		}
		rows := make([][2]string, 0, len(list))
		for _, g := range list {
			rows = append(rows, [2]string{g.Name, g.Slug})
		}
		printNamed(out, "genres", rows, total)
		return nil
	}),
}

func printTitles(out io.Writer, list []models.Title, total int64) {
	if len(list) == 0 {
		muted.Fprintln(out, "No titles found.")
		return
	}
	header.Fprintf(out, "Titles (%d total)\n", total)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tYEAR\tNAME\tCATEGORY\tGENRES\tRATING")
	for _, t := range list {
		category := "-"
		if t.Category != nil {
			category = t.Category.Slug
		}
		genres := "-"
		if len(t.Genres) > 0 {
			slugs := make([]string, 0, len(t.Genres))
			for _, g := range t.Genres {
				slugs = append(slugs, g.Slug)
			}
			genres = strings.Join(slugs, ",")
		}
		rating := "-"
		if t.Rating != nil {
			rating = fmt.Sprintf("%.1f", *t.Rating)
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n", t.ID, t.Year, t.Name, category, genres, rating)
	}
	_ = w.Flush()
}

func printNamed(out io.Writer, kind string, rows [][2]string, total int64) {
	if len(rows) == 0 {
		muted.Fprintf(out, "No %s found.\n", kind)
		return
	}
	header.Fprintf(out, "%s (%d total)\n", strings.ToUpper(kind[:1])+kind[1:], total)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SLUG\tNAME")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\n", r[1], r[0])
	}
	_ = w.Flush()
}

func init() {
	for _, c := range []*cobra.Command{titlesCmd, categoriesCmd, genresCmd} {
		c.Flags().IntVar(&page, "page", 1, "page number")
	}
	titlesCmd.Flags().StringVar(&titleFilter.Name, "name", "", "filter by name substring")
	titlesCmd.Flags().IntVar(&titleFilter.Year, "year", 0, "filter by year")
	titlesCmd.Flags().StringVar(&titleFilter.Category, "category", "", "filter by category slug")
	titlesCmd.Flags().StringVar(&titleFilter.Genre, "genre", "", "filter by genre slug")
	categoriesCmd.Flags().StringVar(&search, "search", "", "filter by name")
	genresCmd.Flags().StringVar(&search, "search", "", "filter by name")
}
