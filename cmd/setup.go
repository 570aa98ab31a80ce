package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/spotkit/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) configFile(cmd *cli.Command) string {
	if path := cmd.String("config"); path != "" {
		return path
	}
	if r.configPath != "" {
		return r.configPath
	}
	return "config.toml"
}

// SetupConfig writes the example configuration so credentials can be filled in.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := r.configFile(cmd)
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Wrote %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set credentials.spotify.client_id and client_secret in %s\n", path)
	r.writePlain("2. Add %s as a redirect URI of your Spotify app\n", shared.DefaultConfig().Credentials.Spotify.RedirectURI)
	r.writePlain("3. Run 'spotkit auth login'\n")
	return nil
}

// SetupDatabase initializes the export history database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := r.configFile(cmd)
	if _, err := os.Stat(path); err != nil {
		r.logger.Info("config file not found, creating from template", "path", path)
		if err := shared.CreateConfigFile(path); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", path)
		}
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := shared.OpenDatabase(ctx, r.config.Database)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return r.writePlain("✓ Database ready at %s\n", r.config.Database.Path)
}
