package call

import (
	"fmt"
	"github.com/ValentinKolb/zcrpc/lib/serial"
	"github.com/spf13/cobra"
	"strconv"
	"time"
)

var (
	echoCmd = &cobra.Command{
		Use:   "echo [note] [segment...]",
		Short: "Sends a note and payload segments and prints the echo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := make([][]byte, 0, len(args)-1)
			for _, seg := range args[1:] {
				payload = append(payload, []byte(seg))
			}

			resp, err := rpcClient.Echo(args[0], payload...)
			if err != nil {
				return err
			}

			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				fmt.Println(serial.Describe(resp))
				return nil
			}
			fmt.Printf("note:    %s\n", resp.Note.String())
			fmt.Printf("payload: %s (%d bytes)\n", resp.Payload.Bytes(), resp.Payload.SummedSize())
			return nil
		},
	}
	sumCmd = &cobra.Command{
		Use:   "sum [value...]",
		Short: "Lets the server add up unsigned integers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make([]uint64, len(args))
			for i, arg := range args {
				v, err := strconv.ParseUint(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("value must be an unsigned number: %w", err)
				}
				values[i] = v
			}

			resp, err := rpcClient.Sum(values)
			if err != nil {
				return err
			}

			fmt.Printf("sum:   %d\n", resp.Sum)
			fmt.Printf("count: %d\n", resp.Count)
			if b := resp.Bounds.Get(); b != nil {
				fmt.Printf("min:   %d\n", b.Min)
				fmt.Printf("max:   %d\n", b.Max)
			}
			return nil
		},
	}
	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Prints version and limits of the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := rpcClient.Info()
			if err != nil {
				return err
			}

			maxSegments := "unlimited"
			if resp.MaxSegments > 0 {
				maxSegments = strconv.FormatUint(uint64(resp.MaxSegments), 10)
			}
			fmt.Printf("version:      %s\n", resp.Version.String())
			fmt.Printf("uptime:       %s\n", time.Duration(resp.UptimeMs)*time.Millisecond)
			fmt.Printf("max segments: %s\n", maxSegments)
			return nil
		},
	}
)

func init() {
	echoCmd.Flags().BoolP("verbose", "v", false, "Print every field of the response")
}
