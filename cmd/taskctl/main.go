package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:           "taskctl",
		Short:         "Administer the task manager database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrateDb()
		},
	}

	var exportCmd = &cobra.Command{
		Use:   "export [file]",
		Short: "Write every task table to a JSON dump (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportData(cmd.Context(), fileArg(args))
		},
	}

	var importCmd = &cobra.Command{
		Use:   "import [file]",
		Short: "Load a JSON dump (stdin when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return importData(cmd.Context(), fileArg(args))
		},
	}

	var createSuperuserCmd = &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create a worker account with every permission",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			position, _ := cmd.Flags().GetString("position")
			return createSuperuser(cmd.Context(), username, email, password, position)
		},
	}

	createSuperuserCmd.Flags().String("username", "", "login name")
	createSuperuserCmd.Flags().String("email", "", "email address")
	createSuperuserCmd.Flags().String("password", "", "password")
	createSuperuserCmd.Flags().String("position", "Administrator", "position name, created when missing")
	_ = createSuperuserCmd.MarkFlagRequired("username")
	_ = createSuperuserCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(migrateCmd, exportCmd, importCmd, createSuperuserCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fileArg(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}
