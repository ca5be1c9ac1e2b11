package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/aniekan-akpan/theblog/internal/config"
	"github.com/aniekan-akpan/theblog/internal/content"
	"github.com/aniekan-akpan/theblog/internal/session"
	"github.com/aniekan-akpan/theblog/internal/strapi"
)

var cfgFile string
var appConfig config.Config

// logger receives CMS and storage errors; command output goes to the
// command's own writer.
var logger = log.New(os.Stderr, "theblog: ", log.LstdFlags)

var rootCmd = &cobra.Command{
	Use:   "theblog",
	Short: "Read and interact with the blog's content from the terminal",
	Long: `theblog talks to the Strapi instance behind the blog. It lists posts,
projects and podcast episodes, submits comments for moderation, toggles likes
for this machine's anonymous session and can run a local CMS for development.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

// Execute runs the CLI. An interrupt cancels the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./theblog.yaml)")
}

func initializeConfig(_ *cobra.Command) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	appConfig = cfg
	return nil
}

func newService() *content.Service {
	client := strapi.NewClient(strapi.Config{
		BaseURL:  appConfig.StrapiURL,
		APIToken: appConfig.APIToken,
	})
	return content.New(client, logger)
}

func newSessionProvider() *session.Provider {
	if appConfig.SessionFile == "" {
		return session.NewProvider(nil, logger)
	}
	return session.NewProvider(session.NewFileStore(appConfig.SessionFile), logger)
}
