package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aniekan-akpan/theblog/internal/widget"
)

var commentsCmd = &cobra.Command{
	Use:   "comments",
	Short: "Read, submit and moderate comments",
}

var commentsListCmd = &cobra.Command{
	Use:   "list <postId>",
	Short: "List the approved comments of a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		section := widget.NewCommentSection(newService(), args[0], logger)
		defer section.Unmount()
		section.Load(cmd.Context())

		out := cmd.OutOrStdout()
		view := section.View()
		fmt.Fprintf(out, "Comments (%d)\n", len(view.Comments))
		if len(view.Comments) == 0 {
			fmt.Fprintln(out, "No comments yet. Be the first to comment!")
			return nil
		}
		for _, c := range view.Comments {
			fmt.Fprintln(out)
			printComment(out, c)
		}
		return nil
	},
}

var commentsSubmitCmd = &cobra.Command{
	Use:   "submit <postId>",
	Short: "Submit a comment for moderation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var form widget.Form
		form.AuthorName, _ = cmd.Flags().GetString("name")
		form.AuthorEmail, _ = cmd.Flags().GetString("email")
		form.AuthorWebsite, _ = cmd.Flags().GetString("website")
		form.Content, _ = cmd.Flags().GetString("content")
		if err := form.Validate(); err != nil {
			return err
		}

		section := widget.NewCommentSection(newService(), args[0], logger)
		defer section.Unmount()
		if parent, _ := cmd.Flags().GetString("reply-to"); parent != "" {
			section.ReplyTo(parent)
		} else {
			section.OpenForm()
		}
		section.SetForm(form)
		section.Submit(cmd.Context())

		view := section.View()
		if view.Error != "" {
			return fmt.Errorf("%s", view.Error)
		}
		fmt.Fprintln(cmd.OutOrStdout(), view.Success)
		return nil
	},
}

var commentsPendingCmd = &cobra.Command{
	Use:   "pending [postId]",
	Short: "List comments awaiting moderation (needs an API token)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var postID string
		if len(args) == 1 {
			postID = args[0]
		}
		out := cmd.OutOrStdout()
		pending := newService().ListPendingComments(cmd.Context(), postID)
		if len(pending) == 0 {
			fmt.Fprintln(out, "No comments awaiting moderation.")
			return nil
		}
		for i, c := range pending {
			if i > 0 {
				fmt.Fprintln(out)
			}
			printComment(out, c)
		}
		return nil
	},
}

var commentsApproveCmd = &cobra.Command{
	Use:   "approve <commentId>",
	Short: "Approve a comment so it becomes public (needs an API token)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !newService().ApproveComment(cmd.Context(), args[0]) {
			return fmt.Errorf("could not approve comment %s", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Approved comment %s.\n", args[0])
		return nil
	},
}

var commentsDeleteCmd = &cobra.Command{
	Use:   "delete <commentId>",
	Short: "Delete a comment (needs an API token)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !newService().DeleteComment(cmd.Context(), args[0]) {
			return fmt.Errorf("could not delete comment %s", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted comment %s.\n", args[0])
		return nil
	},
}

func init() {
	f := commentsSubmitCmd.Flags()
	f.String("name", "", "your name")
	f.String("email", "", "your email (never shown)")
	f.String("website", "", "your website (optional)")
	f.String("content", "", "the comment")
	f.String("reply-to", "", "id of the comment being answered")

	commentsCmd.AddCommand(commentsListCmd, commentsSubmitCmd, commentsPendingCmd, commentsApproveCmd, commentsDeleteCmd)
	rootCmd.AddCommand(commentsCmd)
}
