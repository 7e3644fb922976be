package cmd

import (
	"fmt"
	"strings"

	"github.com/jtyocum/groupstool/pkg/sdk"
	"github.com/spf13/cobra"
)

// Positional argument names, as shown in usage lines.
const (
	argCert   = "auth_cert"
	argGroup  = "group_id"
	argMember = "member_uid"
)

// membershipArgs holds the validated positional arguments of one command.
type membershipArgs struct {
	certPath string
	group    sdk.GroupID
	member   sdk.NetID
}

// bind returns a cobra.PositionalArgs that checks the argument count,
// validates identifiers and stores them in a. It runs before settings are
// loaded, so malformed input never reaches the network. A command given no
// arguments at all prints its help.
func (a *membershipArgs) bind(names ...string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			_ = cmd.Help()
			return errHelpShown
		}
		if len(args) != len(names) {
			return &usageError{err: fmt.Errorf("%s takes %d arguments (%s), got %d",
				cmd.Name(), len(names), strings.Join(names, ", "), len(args))}
		}

		for i, name := range names {
			switch name {
			case argCert:
				a.certPath = args[i]
			case argGroup:
				group, err := sdk.ValidateGroupID(args[i])
				if err != nil {
					return err
				}
				a.group = group
			case argMember:
				member, err := sdk.ValidateNetID(args[i])
				if err != nil {
					return err
				}
				a.member = member
			}
		}
		return nil
	}
}

func usageLine(name string, args ...string) string {
	return name + " <" + strings.Join(args, "> <") + ">"
}
