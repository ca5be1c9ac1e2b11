package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aniekan-akpan/theblog/internal/content"
	"github.com/aniekan-akpan/theblog/internal/markdown"
	"github.com/aniekan-akpan/theblog/internal/model"
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List and show blog posts",
}

var postsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List published posts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newService()
		tag, _ := cmd.Flags().GetString("tag")
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("page-size")

		var (
			posts      []model.BlogPost
			pagination *model.Pagination
		)
		switch {
		case tag != "":
			posts = svc.GetBlogPostsByTag(cmd.Context(), tag)
			// Not a stored spelling; try it as a tag slug.
			if len(posts) == 0 {
				posts = content.PostsByTag(svc.GetAllBlogPosts(cmd.Context()), content.Slugify(tag))
			}
		case page > 0:
			res := svc.GetPaginatedBlogPosts(cmd.Context(), page, size)
			posts, pagination = res.Items, res.Pagination
		default:
			posts = svc.GetAllBlogPosts(cmd.Context())
		}

		out := cmd.OutOrStdout()
		if len(posts) == 0 {
			fmt.Fprintln(out, "No posts found.")
			return nil
		}
		rows := make([][]string, 0, len(posts))
		for _, p := range posts {
			rows = append(rows, []string{
				formatDate(p.PubDate), p.Slug, p.Title, strings.Join(p.Tags, ","),
				strconv.Itoa(p.CommentsCount), strconv.Itoa(p.LikesCount),
			})
		}
		if err := table(out, "DATE\tSLUG\tTITLE\tTAGS\tCOMMENTS\tLIKES", rows); err != nil {
			return err
		}
		printPagination(out, pagination)
		return nil
	},
}

var postsShowCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Show one post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		p := newService().GetBlogPostBySlug(cmd.Context(), args[0])
		if p == nil {
			fmt.Fprintf(out, "Post %q not found.\n", args[0])
			return nil
		}
		fmt.Fprintf(out, "%s\n", p.Title)
		fmt.Fprintf(out, "ID: %s\nPublished: %s\n", p.ID, formatDate(p.PubDate))
		if p.Author != "" {
			fmt.Fprintf(out, "Author: %s\n", p.Author)
		}
		if len(p.Tags) > 0 {
			fmt.Fprintf(out, "Tags: %s\n", strings.Join(p.Tags, ", "))
		}
		printImage(out, "Image", p.Image)
		fmt.Fprintf(out, "Comments: %d  Likes: %d\n", p.CommentsCount, p.LikesCount)
		if p.Description != "" {
			fmt.Fprintf(out, "\n%s\n", p.Description)
		}

		body := p.Body
		if asHTML, _ := cmd.Flags().GetBool("html"); asHTML {
			html, err := markdown.New().ToHTML(body)
			if err != nil {
				return fmt.Errorf("failed to convert markdown to HTML for post '%s': %w", p.Slug, err)
			}
			body = html
		}
		if body != "" {
			fmt.Fprintf(out, "\n%s\n", strings.TrimSpace(body))
		}
		return nil
	},
}

var postsTagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the tags used by published posts with their slugs",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		tags := content.TagsFromPosts(newService().GetAllBlogPosts(cmd.Context()))
		if len(tags) == 0 {
			fmt.Fprintln(out, "No tags found.")
			return nil
		}
		sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
		rows := make([][]string, 0, len(tags))
		for _, tag := range tags {
			rows = append(rows, []string{tag.Name, tag.ID})
		}
		return table(out, "TAG\tSLUG", rows)
	},
}

func init() {
	postsListCmd.Flags().String("tag", "", "only posts carrying this tag, by name or slug")
	postsListCmd.Flags().Int("page", 0, "page number (enables pagination)")
	postsListCmd.Flags().Int("page-size", 10, "posts per page")
	postsShowCmd.Flags().Bool("html", false, "render the body as HTML")

	postsCmd.AddCommand(postsListCmd, postsShowCmd, postsTagsCmd)
	rootCmd.AddCommand(postsCmd)
}
