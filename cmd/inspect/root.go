package inspect

import (
	"encoding/hex"
	"errors"
	"fmt"
	"github.com/ValentinKolb/zcrpc/cmd/util"
	"github.com/ValentinKolb/zcrpc/lib/iovec"
	"github.com/ValentinKolb/zcrpc/lib/serial"
	"github.com/ValentinKolb/zcrpc/rpc/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"io"
	"os"
	"strconv"
	"strings"
)

// previewBytes is the number of bytes shown per segment
const previewBytes = 16

var (
	// InspectCmd prints the segment layout of a protocol message
	InspectCmd = &cobra.Command{
		Use:   "inspect [echo|sum|info|error] [arg...]",
		Short: "Serialize a protocol message and print its segment layout",
		Long: `Serialize a protocol message and print the segments a transport would write.
For echo the first argument is the note and the others are payload segments,
for sum the arguments are the values and for error the arguments form the
message.`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return util.BindCommandFlags(cmd) },
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := buildMessage(args[0], args[1:])
			if err != nil {
				return err
			}
			return inspect(os.Stdout, m, viper.GetInt("capacity"))
		},
	}
)

func init() {
	key := "capacity"
	InspectCmd.Flags().Int(key, 0, util.WrapString("Number of segment slots of the output vector (0 sizes the vector to fit)"))
}

// buildMessage creates the request (or error response) named by kind
func buildMessage(kind string, args []string) (common.Headed, error) {
	switch kind {
	case "echo":
		if len(args) == 0 {
			return nil, errors.New("echo needs a note")
		}
		payload := make([][]byte, 0, len(args)-1)
		for _, arg := range args[1:] {
			payload = append(payload, []byte(arg))
		}
		return common.NewEchoRequest(args[0], payload...), nil
	case "sum":
		values := make([]uint64, len(args))
		for i, arg := range args {
			v, err := strconv.ParseUint(arg, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("value must be an unsigned number: %w", err)
			}
			values[i] = v
		}
		return common.NewSumRequest(values), nil
	case "info":
		return &common.InfoRequest{}, nil
	case "error":
		return common.NewErrorResponse(0, errors.New(strings.Join(args, " "))), nil
	default:
		return nil, fmt.Errorf("unknown message %s (expected echo, sum, info or error)", kind)
	}
}

// inspect serializes m into a vector with capacity slots and writes the
// message, its footprint and every segment to w
func inspect(w io.Writer, m serial.Message, capacity int) error {
	fp := serial.Measure(m)
	if capacity <= 0 {
		capacity = fp.Segments
	}

	fmt.Fprintln(w, serial.Describe(m))
	fmt.Fprintf(w, "footprint: %d segment(s), %d bytes, body %d bytes\n", fp.Segments, fp.Bytes, fp.Body)

	iov := iovec.NewVector(capacity)
	s := serial.NewSerializer(iov)
	serErr := s.Serialize(m)

	fmt.Fprintf(w, "vector:    %d/%d slot(s) used, %d bytes\n", iov.Len(), iov.Capacity(), iov.Sum())
	for i, seg := range iov.Segments() {
		preview := seg[:min(len(seg), previewBytes)]
		suffix := ""
		if len(seg) > previewBytes {
			suffix = " ..."
		}
		fmt.Fprintf(w, "  [%d] %6dB  %s%s\n", i, len(seg), hex.EncodeToString(preview), suffix)
	}

	if serErr != nil {
		fmt.Fprintf(w, "incomplete: %v\n", serErr)
		return nil
	}

	// decode the gathered bytes again to show the layout is self contained
	d := serial.NewDeserializer(iovec.NewSource(iov.Bytes()))
	if !d.Deserialize(newLike(m)) || d.Failed() {
		return fmt.Errorf("round trip failed: %w", d.Err())
	}
	fmt.Fprintln(w, "round trip: ok")
	return nil
}

// newLike returns an empty message of the same protocol type as m
func newLike(m serial.Message) serial.Message {
	switch m.(type) {
	case *common.EchoRequest:
		return &common.EchoRequest{}
	case *common.SumRequest:
		return &common.SumRequest{}
	case *common.InfoRequest:
		return &common.InfoRequest{}
	default:
		return &common.ErrorResponse{}
	}
}
