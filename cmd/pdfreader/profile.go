package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-reader/internal/profile"
)

func profileCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the reader profile (name, API key, avatar)",
	}
	cmd.AddCommand(profileSetCmd(cfgPath), profileShowCmd(cfgPath))
	return cmd
}

func profileSetCmd(cfgPath *string) *cobra.Command {
	var name, key, avatar string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or update the profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*cfgPath, "")
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.loadProfile(cmd.Context())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				p.Name = strings.TrimSpace(name)
			}
			if cmd.Flags().Changed("api-key") {
				p.APIKey = strings.TrimSpace(key)
			}
			if cmd.Flags().Changed("avatar") {
				if avatar == "" {
					p.Avatar = ""
				} else if p.Avatar, err = profile.AvatarFromFile(avatar); err != nil {
					return err
				}
			}
			if err := a.store.Save(cmd.Context(), p); err != nil {
				return err
			}
			a.log.Info("profile saved", "has_avatar", p.Avatar != "")
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s!\n", p.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&key, "api-key", "", "API key for the completion service")
	cmd.Flags().StringVar(&avatar, "avatar", "", "image file to use as avatar (empty to remove)")
	return cmd
}

func profileShowCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the saved profile with the key masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*cfgPath, "")
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.loadProfile(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !p.Complete() {
				fmt.Fprintln(out, "No profile yet. Run `pdfreader profile set --name NAME --api-key KEY`.")
				return nil
			}
			avatar := "initial " + p.Initial()
			if p.Avatar != "" {
				avatar = "image"
			}
			fmt.Fprintf(out, "Name:    %s\nAPI key: %s\nAvatar:  %s\n", p.Name, p.MaskedKey(), avatar)
			return nil
		},
	}
}
