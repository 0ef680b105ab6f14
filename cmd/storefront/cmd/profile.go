package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pikacards/storefront/profile"
)

var (
	profileProvince string
	profileAddress  string
	profileAvatar   string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your shipping profile and preferences",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the shipping profile for the signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		session := a.sessions.Load()
		if session == nil {
			fmt.Println("Sign in first: storefront login")
			return nil
		}
		p := a.profiles.Load(session.User.Username)
		fmt.Printf("User:     %s\n", session.User.Username)
		if session.User.Email != "" {
			fmt.Printf("Email:    %s\n", session.User.Email)
		}
		fmt.Printf("Province: %s\n", orUnset(p.Province))
		fmt.Printf("Address:  %s\n", orUnset(p.Address))
		if p.Avatar != "" {
			fmt.Println("Avatar:   (set)")
		}
		fmt.Printf("History image size: %s\n", a.profiles.ImageSizePref())
		if !p.Complete() {
			fmt.Println("\nProvince and address are required before checkout.")
		}
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the shipping profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		session := a.sessions.Load()
		if session == nil {
			return fmt.Errorf("sign in first: storefront login")
		}
		username := session.User.Username
		p := a.profiles.Load(username)
		if cmd.Flags().Changed("province") {
			p.Province = profileProvince
		}
		if cmd.Flags().Changed("address") {
			p.Address = profileAddress
		}
		if cmd.Flags().Changed("avatar") {
			p.Avatar = profileAvatar
		}
		if err := a.profiles.Save(username, p); err != nil {
			return err
		}
		fmt.Println("Profile saved.")
		return nil
	},
}

var profilePrefCmd = &cobra.Command{
	Use:   "pref image-size <small|medium|large>",
	Short: "Set the history image-size preference",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] != "image-size" {
			return fmt.Errorf("unknown preference %q", args[0])
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.profiles.SetImageSizePref(args[1]); err != nil {
			return err
		}
		fmt.Printf("History images set to %s (%dpx).\n", args[1], profile.ImageSizePixels(args[1]))
		return nil
	},
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func init() {
	profileSetCmd.Flags().StringVar(&profileProvince, "province", "", "Shipping province")
	profileSetCmd.Flags().StringVar(&profileAddress, "address", "", "Shipping address")
	profileSetCmd.Flags().StringVar(&profileAvatar, "avatar", "", "Avatar data URI")

	profileCmd.AddCommand(profileShowCmd, profileSetCmd, profilePrefCmd)
	rootCmd.AddCommand(profileCmd)
}
