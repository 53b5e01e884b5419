package call

import (
	"encoding/csv"
	"fmt"
	"github.com/ValentinKolb/zcrpc/cmd/util"
	"github.com/ValentinKolb/zcrpc/lib/stats"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"log"
	"math"
	"math/rand"
	"os"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for zcrpc servers",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfNumThreads       = 10
	perfLargeValueSizeKB = 1024
	perfSegments         = 16
	perfSumValues        = 256
	perfSkip             = make([]string, 0)
)

// perfResult is the outcome of one benchmark
type perfResult struct {
	bench   testing.BenchmarkResult
	latency metrics.Timer
	// balance rates how evenly operations were spread over the threads
	balance float64
	sizes   metrics.Histogram
}

func init() {
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. echo,sum)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 1024, util.WrapString("Upper bound of the payload size for the echo-large test (in KB). Payload sizes are drawn uniformly up to this size"))
	key = "segments"
	perfTestCmd.Flags().Int(key, 16, util.WrapString("Number of segments the echo-large payload is split into"))
	key = "values"
	perfTestCmd.Flags().Int(key, 256, util.WrapString("Number of values per sum request"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfLargeValueSizeKB = max(viper.GetInt("large-value-size"), 1)
	perfSegments = max(viper.GetInt("segments"), 1)
	perfSumValues = max(viper.GetInt("values"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {
	fmt.Println("Performance testing tool for zcrpc servers")

	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	fmt.Println("starting tests...")

	results := make(map[string]perfResult)

	results["echo"] = benchmark("echo", func(_ *rand.Rand) (int, error) {
		resp, err := rpcClient.Echo("ping")
		if err != nil {
			return 0, err
		}
		return resp.Payload.SummedSize(), nil
	})

	largeValue := make([]byte, perfLargeValueSizeKB*1024)
	for i := range largeValue {
		largeValue[i] = byte(i)
	}
	results["echo-large"] = benchmark("echo-large", func(rnd *rand.Rand) (int, error) {
		resp, err := rpcClient.Echo("large", splitPayload(largeValue[:1+rnd.Intn(len(largeValue))], perfSegments)...)
		if err != nil {
			return 0, err
		}
		return resp.Payload.SummedSize(), nil
	})

	values := make([]uint64, perfSumValues)
	for i := range values {
		values[i] = uint64(i)
	}
	results["sum"] = benchmark("sum", func(_ *rand.Rand) (int, error) {
		_, err := rpcClient.Sum(values)
		return len(values) * 8, err
	})

	results["info"] = benchmark("info", func(_ *rand.Rand) (int, error) {
		_, err := rpcClient.Info()
		return 0, err
	})

	results["mixed"] = benchmark("mixed", func(rnd *rand.Rand) (int, error) {
		switch rnd.Intn(3) {
		case 0:
			resp, err := rpcClient.Echo("mixed", largeValue[:1+rnd.Intn(min(len(largeValue), 64*1024))])
			if err != nil {
				return 0, err
			}
			return resp.Payload.SummedSize(), nil
		case 1:
			_, err := rpcClient.Sum(values)
			return len(values) * 8, err
		default:
			_, err := rpcClient.Info()
			return 0, err
		}
	})

	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %w", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// benchmark runs op on perfNumThreads goroutines. op returns the payload size
// of the call.
func benchmark(name string, op func(rnd *rand.Rand) (int, error)) perfResult {
	var result perfResult
	if shouldSkip(name) {
		printResult(name, result)
		return result
	}

	result.bench = testing.Benchmark(func(b *testing.B) {
		// only the last (longest) run is reported
		timer := metrics.NewTimer()
		sizes := stats.NewSizeHistogram()
		perThread := stats.NewSpreadHistogram()

		b.SetParallelism(perfNumThreads)
		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
			ops := 0
			for pb.Next() {
				start := time.Now()
				size, err := op(rnd)
				timer.UpdateSince(start)
				if err != nil {
					log.Printf("(%s) - error: %v\n", name, err)
					continue
				}
				sizes.Update(int64(size))
				ops++
			}
			perThread.Update(int64(ops))
		})

		result.latency = timer
		result.sizes = sizes
		result.balance = stats.Balance(perThread)
	})

	printResult(name, result)
	return result
}

// splitPayload cuts b into at most n segments of about the same size
func splitPayload(b []byte, n int) [][]byte {
	size := max((len(b)+n-1)/n, 1)
	segs := make([][]byte, 0, n)
	for len(b) > 0 {
		k := min(size, len(b))
		segs = append(segs, b[:k:k])
		b = b[k:]
	}
	return segs
}

func shouldSkip(test string) bool {
	return slices.Contains(perfSkip, test)
}

// printResult prints the result of a benchmark in a formatted way
func printResult(test string, result perfResult) {
	if result.bench.NsPerOp() == 0 || result.latency == nil {
		fmt.Printf("%-14sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.bench.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	snap := result.latency.Snapshot()
	ps := snap.Percentiles([]float64{0.5, 0.99})

	fmt.Printf("%-14s%.0fns/op (%s/op)\t%.0f ops/sec\tp50 %s\tp99 %s\tbalance %.2f",
		test, nsPerOp, time.Duration(nsPerOp), opsPerSec,
		time.Duration(ps[0]), time.Duration(ps[1]), result.balance)
	if result.sizes.Sum() > 0 {
		sizes := result.sizes.Snapshot().Percentiles([]float64{0.5, 0.99})
		fmt.Printf("\tpayload median %.0fB p99 %.0fB", sizes[0], sizes[1])
	}
	fmt.Println()
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]perfResult) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	config := util.GetClientConfig()

	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "P50Ns", "P99Ns", "Balance", "MedianPayload", "Skipped",
		"Endpoints", "TimeoutSec", "RetryCount", "ConnectionsPerEndpoint", "Transport",
		"Threads", "LargeValueSizeKB", "Segments", "SumValues",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, test := range names {
		result := results[test]
		var nsPerOp, opsPerSec, p50, p99 float64
		var medianPayload float64
		skipped := "true"

		if result.bench.NsPerOp() != 0 && result.latency != nil {
			skipped = "false"
			nsPerOp = math.Max(float64(result.bench.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
			ps := result.latency.Snapshot().Percentiles([]float64{0.5, 0.99})
			p50, p99 = ps[0], ps[1]
			medianPayload = result.sizes.Snapshot().Percentile(0.5)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			fmt.Sprintf("%.0f", p50),
			fmt.Sprintf("%.0f", p99),
			fmt.Sprintf("%.3f", result.balance),
			fmt.Sprintf("%.0f", medianPayload),
			skipped,
			strings.Join(config.Transport.Endpoints, ";"),
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.Transport.RetryCount),
			strconv.Itoa(config.Transport.ConnectionsPerEndpoint),
			viper.GetString("transport"),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfLargeValueSizeKB),
			strconv.Itoa(perfSegments),
			strconv.Itoa(perfSumValues),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %w", test, err)
		}
	}

	return nil
}
