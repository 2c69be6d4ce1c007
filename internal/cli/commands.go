package cli

import (
	"github.com/spf13/cobra"
)

func newCpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cp <from_location> <to_location>",
		Short: "Copy a file or directory",
		Long: `Copy a file or a directory tree. When to_location is a bucket root
such as gs://bucket/, a copied file keeps its name.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			return client.Copy(cmd.Context(), args[0], args[1])
		},
	}
}

func newMvCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <from_location> <to_location>",
		Short: "Move a file or directory",
		Long: `Move a file or a directory tree. Each source file is deleted once its
copy succeeded. A failed move is not rolled back.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			return client.Move(cmd.Context(), args[0], args[1])
		},
	}
}

func newRmCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "rm <location>",
		Short: "Remove a file or directory",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			return client.Remove(cmd.Context(), args[0], strict)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail if the location does not exist")

	return cmd
}
