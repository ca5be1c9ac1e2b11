package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aniekan-akpan/theblog/internal/model"
)

var podcastsCmd = &cobra.Command{
	Use:   "podcasts",
	Short: "List and show podcast episodes",
}

var podcastsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List episodes, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newService()
		var episodes []model.Podcast
		if featured, _ := cmd.Flags().GetBool("featured"); featured {
			episodes = svc.GetFeaturedPodcasts(cmd.Context())
		} else {
			episodes = svc.GetAllPodcasts(cmd.Context())
		}

		out := cmd.OutOrStdout()
		if len(episodes) == 0 {
			fmt.Fprintln(out, "No episodes found.")
			return nil
		}
		rows := make([][]string, 0, len(episodes))
		for _, p := range episodes {
			ep := "-"
			if p.EpisodeNumber > 0 {
				ep = strconv.Itoa(p.EpisodeNumber)
				if p.Season > 0 {
					ep = fmt.Sprintf("S%dE%d", p.Season, p.EpisodeNumber)
				}
			}
			rows = append(rows, []string{formatDate(p.PubDate), ep, p.Slug, p.Title, p.Duration})
		}
		return table(out, "DATE\tEPISODE\tSLUG\tTITLE\tDURATION", rows)
	},
}

var podcastsShowCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Show one episode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		p := newService().GetPodcastBySlug(cmd.Context(), args[0])
		if p == nil {
			fmt.Fprintf(out, "Episode %q not found.\n", args[0])
			return nil
		}
		fmt.Fprintf(out, "%s\n", p.Title)
		fmt.Fprintf(out, "Published: %s\nAudio: %s\n", formatDate(p.PubDate), p.AudioURL)
		if p.Duration != "" {
			fmt.Fprintf(out, "Duration: %s\n", p.Duration)
		}
		printImage(out, "Cover", p.CoverImage)
		if p.Description != "" {
			fmt.Fprintf(out, "\n%s\n", p.Description)
		}
		if p.Transcript != "" {
			fmt.Fprintf(out, "\nTranscript:\n%s\n", p.Transcript)
		}
		return nil
	},
}

func init() {
	podcastsListCmd.Flags().Bool("featured", false, "only featured episodes")

	podcastsCmd.AddCommand(podcastsListCmd, podcastsShowCmd)
	rootCmd.AddCommand(podcastsCmd)
}
