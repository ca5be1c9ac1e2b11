package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aniekan-akpan/theblog/internal/content"
	"github.com/aniekan-akpan/theblog/internal/model"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List and show portfolio projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects in display order",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newService()
		featured, _ := cmd.Flags().GetBool("featured")
		byDate, _ := cmd.Flags().GetBool("by-date")
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("page-size")

		var (
			projects   []model.Project
			pagination *model.Pagination
		)
		switch {
		case featured:
			projects = svc.GetFeaturedProjects(cmd.Context())
		case page > 0:
			res := svc.GetPaginatedProjects(cmd.Context(), page, size)
			projects, pagination = res.Items, res.Pagination
		default:
			projects = svc.GetAllProjects(cmd.Context())
		}
		if byDate {
			content.SortByDateDesc(projects, content.ProjectDates)
		}

		out := cmd.OutOrStdout()
		if len(projects) == 0 {
			fmt.Fprintln(out, "No projects found.")
			return nil
		}
		rows := make([][]string, 0, len(projects))
		for _, p := range projects {
			status := string(p.Status)
			if status == "" {
				status = "-"
			}
			rows = append(rows, []string{strconv.Itoa(p.Order), p.Slug, p.Title, status, strings.Join(p.Technologies, ",")})
		}
		if err := table(out, "ORDER\tSLUG\tTITLE\tSTATUS\tTECHNOLOGIES", rows); err != nil {
			return err
		}
		printPagination(out, pagination)
		return nil
	},
}

var projectsShowCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Show one project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		p := newService().GetProjectBySlug(cmd.Context(), args[0])
		if p == nil {
			fmt.Fprintf(out, "Project %q not found.\n", args[0])
			return nil
		}
		fmt.Fprintf(out, "%s\n", p.Title)
		if p.Status != "" {
			fmt.Fprintf(out, "Status: %s\n", p.Status)
		}
		if p.StartDate != nil {
			end := "present"
			if p.EndDate != nil {
				end = formatDate(*p.EndDate)
			}
			fmt.Fprintf(out, "Dates: %s to %s\n", formatDate(*p.StartDate), end)
		}
		if len(p.Technologies) > 0 {
			fmt.Fprintf(out, "Technologies: %s\n", strings.Join(p.Technologies, ", "))
		}
		if p.LiveURL != "" {
			fmt.Fprintf(out, "Live: %s\n", p.LiveURL)
		}
		if p.GithubURL != "" {
			fmt.Fprintf(out, "Source: %s\n", p.GithubURL)
		}
		printImage(out, "Image", p.Image)
		for i, img := range p.Gallery {
			printImage(out, fmt.Sprintf("Gallery %d", i+1), &img)
		}
		if p.Description != "" {
			fmt.Fprintf(out, "\n%s\n", p.Description)
		}
		return nil
	},
}

func init() {
	projectsListCmd.Flags().Bool("featured", false, "only featured projects")
	projectsListCmd.Flags().Bool("by-date", false, "sort by end date, then start date, newest first")
	projectsListCmd.Flags().Int("page", 0, "page number (enables pagination)")
	projectsListCmd.Flags().Int("page-size", 9, "projects per page")

	projectsCmd.AddCommand(projectsListCmd, projectsShowCmd)
	rootCmd.AddCommand(projectsCmd)
}
