package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/aniekan-akpan/theblog/internal/cms"
	"github.com/aniekan-akpan/theblog/internal/config"
)

var cmsCmd = &cobra.Command{
	Use:   "cms",
	Short: "Run a local Strapi-compatible CMS",
}

// cmsServeCmd represents the cms serve command
var cmsServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the content API locally",
	Long: `The serve command starts a local content API that speaks the same REST
dialect as the production Strapi instance, backed by a SQLite file. Comments
always start unapproved, each session may like a post once and only the
session that left a like can remove it. Requests carrying the admin token may
publish content and moderate comments. When a config file is in use, changes
to cms.token take effect without a restart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := appConfig.CMS.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}
		dbPath := appConfig.CMS.DBPath
		if cmd.Flags().Changed("db") {
			dbPath, _ = cmd.Flags().GetString("db")
		}
		token := appConfig.CMS.Token
		tokenFlag := cmd.Flags().Changed("token")
		if tokenFlag {
			token, _ = cmd.Flags().GetString("token")
		}

		srv, closeDB, err := cms.OpenServer(dbPath, token, logger)
		if err != nil {
			return err
		}
		defer closeDB()
		if token == "" {
			logger.Println("No admin token configured; publishing and moderation are disabled.")
		}

		if appConfig.File != "" && !tokenFlag {
			err := config.Watch(appConfig.File, func(cfg config.Config, err error) {
				if err != nil {
					logger.Printf("Error reloading config: %v", err)
					return
				}
				srv.SetToken(cfg.CMS.Token)
				logger.Println("Config reloaded.")
			})
			if err != nil {
				logger.Printf("Not watching config: %v", err)
			}
		}

		httpServer := &http.Server{Addr: addr, Handler: srv}
		errc := make(chan error, 1)
		go func() {
			errc <- httpServer.ListenAndServe()
		}()
		fmt.Fprintf(cmd.OutOrStdout(), "Serving content API from '%s' on http://localhost%s/api\n", dbPath, addr)
		fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop the server.")

		select {
		case err := <-errc:
			return fmt.Errorf("failed to start HTTP server: %w", err)
		case <-cmd.Context().Done():
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	cmsServeCmd.Flags().String("addr", ":1337", "address to listen on")
	cmsServeCmd.Flags().String("db", "theblog-cms.db", "SQLite database file")
	cmsServeCmd.Flags().String("token", "", "admin API token")

	cmsCmd.AddCommand(cmsServeCmd)
	rootCmd.AddCommand(cmsCmd)
}
