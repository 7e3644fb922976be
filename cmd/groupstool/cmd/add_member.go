package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAddMemberCmd() *cobra.Command {
	var args membershipArgs

	return &cobra.Command{
		Use:   usageLine("add-member", argCert, argGroup, argMember),
		Short: "Add a user to a group",
		Long: `Adds a member to a group and prints the status code the service answered
with. A 4xx or 5xx answer is printed, not treated as a failure.`,
		Args: args.bind(argCert, argGroup, argMember),
		RunE: func(cmd *cobra.Command, _ []string) error {
			groupsClient, err := sdkClient(cmd.Context(), args.certPath)
			if err != nil {
				return err
			}

			result, err := groupsClient.AddMember(cmd.Context(), args.group, args.member)
			if err != nil {
				return fmt.Errorf("failed to add %s to %s: %w", args.member, args.group, err)
			}

			return printResult(cmd, result)
		},
	}
}
