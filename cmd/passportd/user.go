package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kochabx/passport/core/auth/password"
	"github.com/kochabx/passport/core/auth/principal"
	"github.com/kochabx/passport/core/tag"
	"github.com/kochabx/passport/log"
	"github.com/kochabx/passport/store/db"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage principals",
}

var newUser struct {
	username  string
	password  string
	fullName  string
	superuser bool
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a principal with an argon2id password hash",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		p, err := createUser(ctx, cfg, logger, newUser.username, newUser.password, newUser.fullName, newUser.superuser)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), p.ID)
		return nil
	},
}

func init() {
	f := userCreateCmd.Flags()
	f.StringVarP(&newUser.username, "username", "u", "", "login name")
	f.StringVarP(&newUser.password, "password", "p", "", "plain-text password")
	f.StringVar(&newUser.fullName, "full-name", "", "display name")
	f.BoolVar(&newUser.superuser, "superuser", false, "grant superuser")
	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("password")
	userCmd.AddCommand(userCreateCmd)
}

func createUser(ctx context.Context, cfg *Config, logger *log.Logger, username, pw, fullName string, superuser bool) (*principal.Principal, error) {
	if err := tag.ApplyDefaults(cfg); err != nil {
		return nil, err
	}
	hash, err := password.New(cfg.Session.Password).Hash(pw)
	if err != nil {
		return nil, err
	}

	dbc, err := db.New(ctx, &cfg.Database, db.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	defer dbc.Close()

	directory := principal.NewGormDirectory(dbc.DB())
	if cfg.Database.AutoMigrate {
		if err := directory.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("database: migrate: %w", err)
		}
	}

	p := &principal.Principal{Username: username, PasswordHash: hash, FullName: fullName, IsSuperuser: superuser}
	if err := directory.Create(ctx, p); err != nil {
		return nil, err
	}
	logger.Info().Str("principal_id", p.ID).Str("username", username).Msg("principal created")
	return p, nil
}
