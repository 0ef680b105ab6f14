package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
	googleIDToken string
	registerEmail string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session locally",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if googleIDToken != "" {
			session, err := a.auth.LoginWithGoogle(cmd.Context(), googleIDToken)
			if err != nil {
				return err
			}
			if err := a.sessions.Save(session); err != nil {
				return err
			}
			// Adopt the Google picture as the profile avatar unless the user
			// already chose one.
			if err := a.profiles.SeedAvatar(session.User.Username, session.User.Avatar); err != nil {
				return err
			}
			fmt.Printf("Signed in as %s\n", session.User.Username)
			return nil
		}

		username, password, err := credentials()
		if err != nil {
			return err
		}
		session, err := a.auth.Login(cmd.Context(), username, password)
		if err != nil {
			return err
		}
		if err := a.sessions.Save(session); err != nil {
			return err
		}
		fmt.Printf("Signed in as %s\n", session.User.Username)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		username, password, err := credentials()
		if err != nil {
			return err
		}
		msg, err := a.auth.Register(cmd.Context(), username, registerEmail, password)
		if err != nil {
			return err
		}
		if msg == "" {
			msg = "Account created. Sign in with: storefront login"
		}
		fmt.Println(msg)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Destroy the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		a.sessions.Clear()
		fmt.Println("Signed out.")
		return nil
	},
}

func credentials() (username, password string, err error) {
	username = loginUsername
	password = loginPassword
	reader := bufio.NewReader(os.Stdin)
	if username == "" {
		fmt.Print("Username: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", err
		}
		username = strings.TrimSpace(line)
	}
	if password == "" {
		fmt.Print("Password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", err
		}
		password = strings.TrimRight(line, "\r\n")
	}
	return username, password, nil
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username (prompted when omitted)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")
	loginCmd.Flags().StringVar(&googleIDToken, "google-id-token", "", "Sign in with a Google ID token instead of credentials")

	registerCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username (prompted when omitted)")
	registerCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "Email address")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd)
}
