package serve

import (
	"github.com/ValentinKolb/zcrpc/cmd/util"
	"github.com/ValentinKolb/zcrpc/rpc/common"
	"github.com/ValentinKolb/zcrpc/rpc/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"os/signal"
	"syscall"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the zcrpc server",
		Long:    `Start the zcrpc server with the echo, sum and info services. The configuration can be set via command line flags or environment variables. The format of the environment variables is ZCRPC_<flag> (e.g. ZCRPC_MAX_SEGMENTS=64)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	cobra.OnInitialize(util.InitConfig)

	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", util.WrapString("The address on which the server will listen (e.g. localhost:8080, /tmp/zcrpc.sock, ...)"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, util.WrapString("Timeout in seconds for reading a request and writing its response (0 disables it)"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", util.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	key = "max-segments"
	ServeCmd.PersistentFlags().Int(key, 0, util.WrapString("Maximum number of segments of a response. Responses needing more are answered with an error (0 means unlimited)"))

	key = "workers-per-conn"
	ServeCmd.PersistentFlags().Int(key, 8, util.WrapString("Number of requests handled concurrently per connection (tcp and unix)"))

	key = "request-buffer"
	ServeCmd.PersistentFlags().Int(key, 64, util.WrapString("Size of the pooled request buffers in KB. Larger requests use a temporary buffer (tcp and unix)"))

	key = "max-frame-size"
	ServeCmd.PersistentFlags().Int(key, common.DefaultMaxFrameSize/1024, util.WrapString("Largest accepted request in KB. Larger requests are refused and, for tcp and unix, close the connection"))

	key = "read-buffer"
	ServeCmd.PersistentFlags().Int(key, 512, util.WrapString("The size of the socket read buffer (in KB, ignored for http)"))

	key = "write-buffer"
	ServeCmd.PersistentFlags().Int(key, 512, util.WrapString("The size of the socket write buffer (in KB, ignored for http)"))

	key = "tcp-nodelay"
	ServeCmd.PersistentFlags().Bool(key, true, util.WrapString("Whether to enable TCP_NODELAY (only for tcp)"))

	key = "tcp-keepalive"
	ServeCmd.PersistentFlags().Int(key, 0, util.WrapString("The keepalive interval (in seconds, only for tcp)"))

	key = "tcp-linger"
	ServeCmd.PersistentFlags().Int(key, -1, util.WrapString("The linger time (in seconds, only for tcp). A negative value keeps the system default"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", util.WrapString("Address of the Prometheus metrics listener (e.g. localhost:9090). Empty disables it"))
}

// processConfig reads the configuration from the command line flags and
// environment variables and converts it to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	serveCmdConfig.Transport = common.ServerTransportConfig{
		Endpoint:       viper.GetString("endpoint"),
		WorkersPerConn: viper.GetInt("workers-per-conn"),
		BufferSize:     viper.GetInt("request-buffer") * 1024,
		MaxFrameSize:   viper.GetInt("max-frame-size") * 1024,
		SocketConf: common.SocketConf{
			WriteBufferSize: viper.GetInt("write-buffer") * 1024,
			ReadBufferSize:  viper.GetInt("read-buffer") * 1024,
		},
		TCPConf: common.TCPConf{
			TCPNoDelay:      viper.GetBool("tcp-nodelay"),
			TCPKeepAliveSec: viper.GetInt("tcp-keepalive"),
			TCPLingerSec:    viper.GetInt("tcp-linger"),
		},
	}
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.MaxSegments = viper.GetInt("max-segments")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")

	_, err := common.ParseLogLevel(serveCmdConfig.LogLevel)
	return err
}

// run starts the zcrpc server and stops it on SIGINT or SIGTERM
func run(_ *cobra.Command, _ []string) error {
	t, err := util.GetServerTransport()
	if err != nil {
		return err
	}

	serv := server.NewRPCServer(*serveCmdConfig, t)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; ok {
			server.Logger.Infof("Shutting down")
			_ = serv.Close()
		}
	}()

	return serv.Serve()
}
