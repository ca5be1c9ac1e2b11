package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aniekan-akpan/theblog/internal/model"
)

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

func table(w io.Writer, header string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

func printPagination(w io.Writer, p *model.Pagination) {
	if p == nil {
		return
	}
	fmt.Fprintf(w, "\nPage %d of %d (%d total)\n", p.Page, p.PageCount, p.Total)
}

func printImage(w io.Writer, label string, img *model.Image) {
	if img == nil {
		return
	}
	fmt.Fprintf(w, "%s: %s (%s)\n", label, img.URL, img.Alt)
}

func printComment(w io.Writer, c model.Comment) {
	name := c.AuthorName
	if c.AuthorWebsite != "" {
		name += " <" + c.AuthorWebsite + ">"
	}
	fmt.Fprintf(w, "[%s] %s on %s\n", c.ID, name, c.CreatedAt.Format("January 2, 2006 at 15:04"))
	if p := c.ParentComment; p != nil {
		fmt.Fprintf(w, "  in reply to %s: %q\n", p.AuthorName, p.Content)
	}
	for _, line := range strings.Split(c.Content, "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
}
