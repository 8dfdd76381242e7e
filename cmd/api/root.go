package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/contact-site/backend/internal/config"
)

type rootOptions struct {
	StaticDir string
	Index     string
}

// newRootCommand builds the server command. runFn receives the loaded
// configuration with flag overrides applied.
func newRootCommand(runFn func(ctx context.Context, cfg *config.Config) error) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "contact-site",
		Short:        "Serve the static site and accept contact-form inquiries",
		Long:         "Serves the static site and accepts contact-form inquiries on POST /api/inquiries. The listen port comes from PORT (default 5000).",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file
			if err := godotenv.Load(); err != nil {
				log.Printf("warning: failed to load .env file: %v", err)
				log.Println("continuing with system environment variables only")
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			if cmd.Flags().Changed("static-dir") {
				cfg.Static.Root = opts.StaticDir
			}
			if cmd.Flags().Changed("index") {
				cfg.Static.Index = opts.Index
			}

			return runFn(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&opts.StaticDir, "static-dir", "", "asset root directory (overrides STATIC_DIR)")
	cmd.Flags().StringVar(&opts.Index, "index", "", "default document relative to the asset root (overrides STATIC_INDEX)")

	return cmd
}
