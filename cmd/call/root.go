package call

import (
	"github.com/ValentinKolb/zcrpc/cmd/util"
	"github.com/ValentinKolb/zcrpc/rpc/client"
	"github.com/spf13/cobra"
)

var (
	rpcClient *client.RPCClient

	// CallCommands represents the client command group
	CallCommands = &cobra.Command{
		Use:                "call",
		Short:              "Call the services of a zcrpc server",
		PersistentPreRunE:  setupClient,
		PersistentPostRunE: closeClient,
	}
)

func init() {
	cobra.OnInitialize(util.InitConfig)

	util.SetupRPCClientFlags(CallCommands)

	CallCommands.AddCommand(echoCmd)
	CallCommands.AddCommand(sumCmd)
	CallCommands.AddCommand(infoCmd)
	CallCommands.AddCommand(perfTestCmd)
}

// setupClient connects the RPC client
func setupClient(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	t, err := util.GetTransport()
	if err != nil {
		return err
	}

	rpcClient, err = client.NewRPCClient(*util.GetClientConfig(), t)
	return err
}

func closeClient(_ *cobra.Command, _ []string) error {
	if rpcClient == nil {
		return nil
	}
	return rpcClient.Close()
}
