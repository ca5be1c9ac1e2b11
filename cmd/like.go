package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aniekan-akpan/theblog/internal/widget"
)

var likeCmd = &cobra.Command{
	Use:   "like",
	Short: "Like or unlike a post as this machine's session",
}

func mountLikeButton(cmd *cobra.Command, postID string) *widget.LikeButton {
	svc := newService()
	sessionID := newSessionProvider().GetOrCreateSessionID()
	count := svc.GetLikeCountByPostID(cmd.Context(), postID)
	b := widget.NewLikeButton(svc, postID, sessionID, count, logger)
	b.Mount(cmd.Context())
	return b
}

func printLike(w io.Writer, v widget.LikeView) {
	fmt.Fprintf(w, "%s (%d likes)\n", v.State, v.Count)
}

var likeStatusCmd = &cobra.Command{
	Use:   "status <postId>",
	Short: "Show whether this session liked a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b := mountLikeButton(cmd, args[0])
		defer b.Unmount()
		printLike(cmd.OutOrStdout(), b.State())
		return nil
	},
}

var likeToggleCmd = &cobra.Command{
	Use:   "toggle <postId>",
	Short: "Like the post, or take the like back",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b := mountLikeButton(cmd, args[0])
		defer b.Unmount()
		if !b.Toggle(cmd.Context()) {
			return fmt.Errorf("could not toggle like on post %s", args[0])
		}
		printLike(cmd.OutOrStdout(), b.State())
		return nil
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Print this machine's anonymous session id",
	RunE: func(cmd *cobra.Command, args []string) error {
		id := newSessionProvider().GetOrCreateSessionID()
		if id == "" {
			return fmt.Errorf("no session storage available")
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

func init() {
	likeCmd.AddCommand(likeStatusCmd, likeToggleCmd)
	rootCmd.AddCommand(likeCmd, sessionCmd)
}
