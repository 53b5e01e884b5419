// Package client implements the typed RPC client. Requests are serialized
// with lib/serial into a segment vector sized by serial.Measure and handed to
// the transport, which writes the segments without gathering them.
//
// Key Components:
//
//   - RPCClient: Echo, Sum and Info calls. Every request gets a sequence
//     number that the server copies into its response.
//
//   - invoke: the generic request path shared by all calls. A response sent
//     with common.MethodError is decoded as an ErrorResponse and returned as
//     an error carrying the server's message.
//
// Usage Example:
//
//	config := common.ClientConfig{
//	  TimeoutSecond: 5,
//	  Transport: common.ClientTransportConfig{
//	    Endpoints:  []string{"localhost:8080"},
//	    RetryCount: 3,
//	  },
//	}
//
//	c, err := client.NewRPCClient(config, tcp.NewTCPClientTransport())
//	if err != nil {
//	  log.Fatal(err)
//	}
//	defer c.Close()
//
//	resp, _ := c.Echo("greeting", []byte("hello "), []byte("world"))
//	fmt.Println(string(resp.Payload.Bytes()))
//
// Responses alias the buffer received from the transport. They stay valid as
// long as the caller holds them.
//
// Thread Safety:
//
//	RPCClient is safe for concurrent use if its transport is.
package client
