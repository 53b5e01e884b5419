package cmd

import (
	"fmt"
	"github.com/ValentinKolb/zcrpc/cmd/call"
	"github.com/ValentinKolb/zcrpc/cmd/inspect"
	"github.com/ValentinKolb/zcrpc/cmd/serve"
	"github.com/ValentinKolb/zcrpc/cmd/util"
	"github.com/ValentinKolb/zcrpc/rpc/common"
	"github.com/spf13/cobra"
	"os"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "zcrpc",
		Short: "zero-copy scatter-gather RPC",
		Long: fmt.Sprintf(`zcrpc (v%s)

An RPC system whose messages are serialized into scatter-gather segment
lists: large fields are handed to the kernel in place instead of being
copied into a contiguous buffer.`, common.Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of zcrpc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("zcrpc v%s\n", common.Version)
		},
	}
)

func init() {
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(call.CallCommands)
	RootCmd.AddCommand(inspect.InspectCmd)
	RootCmd.AddCommand(versionCmd)

	key := "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to use (tcp, unix, http)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
