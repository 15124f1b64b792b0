package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/RyanBlaney/sample-organizer/configs"
	"github.com/RyanBlaney/sample-organizer/internal/collection"
	"github.com/RyanBlaney/sample-organizer/internal/dataset"
	"github.com/RyanBlaney/sample-organizer/pkg/audio/spectral"
	"github.com/RyanBlaney/sample-organizer/pkg/logging"
)

var (
	datasetBatchSize int
	datasetLimit     int
	datasetShuffle   bool
	datasetSeed      int64
	datasetWorkers   int
	datasetNoBar     bool
)

// datasetCmd iterates a label as resampled, stereo-stacked frame batches
var datasetCmd = &cobra.Command{
	Use:   "dataset [label]",
	Short: "Iterate a label's files as FFT frame batches",
	Long: `Load the files of a label the way a training pipeline would: each file is
resampled to dataset.sample_rate, stacked to two channels and cut into FFT
magnitude frames. Batches are printed with their shape
[batch, frames, channels, fft_size].

Without a label the first label of the collection is used.

Examples:
  sample-organizer dataset kick
  sample-organizer dataset kick --batch-size 4 --limit 1
  sample-organizer dataset snare --shuffle=false -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDataset,
}

func init() {
	datasetCmd.Flags().IntVarP(&datasetBatchSize, "batch-size", "b", 0,
		"files per batch (default from config)")
	datasetCmd.Flags().IntVarP(&datasetLimit, "limit", "n", 0,
		"stop after this many batches (0 for all)")
	datasetCmd.Flags().BoolVar(&datasetShuffle, "shuffle", true,
		"shuffle file order with the seed")
	datasetCmd.Flags().Int64Var(&datasetSeed, "seed", 0,
		"shuffle seed (default from config)")
	datasetCmd.Flags().IntVarP(&datasetWorkers, "workers", "j", 0,
		"parallel decoders per batch (default from config, 0 for all CPUs)")
	datasetCmd.Flags().BoolVar(&datasetNoBar, "no-progress", false,
		"disable the progress bar")

	rootCmd.AddCommand(datasetCmd)
}

// batchReport is one line of dataset output
type batchReport struct {
	Batch int      `json:"batch"`
	Shape []int    `json:"shape"`
	Files []string `json:"files"`
}

func runDataset(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	cfg := mergeDatasetFlags(cmd, a.Config())
	if err := configs.ValidateConfig(cfg); err != nil {
		return err
	}

	store, err := a.OpenStore()
	if err != nil {
		return err
	}

	label, files, err := datasetFiles(store, args)
	if err != nil {
		return err
	}

	ds, err := dataset.New(files, cfg.Dataset.SampleRate, cfg.Dataset.FFTSize, cfg.Dataset.HopLength,
		spectral.WindowType(cfg.Dataset.Window), a.Logger())
	if err != nil {
		return err
	}
	loader := dataset.NewLoader(ds, cfg.Dataset.BatchSize, cfg.Dataset.Shuffle, cfg.Dataset.Seed, cfg.Dataset.Workers)

	batches := loader.NumBatches()
	if datasetLimit > 0 {
		batches = min(batches, datasetLimit)
	}
	total := min(batches*loader.BatchSize, ds.Len())

	a.Logger().Info("Dataset iteration started", logging.Fields{
		"label":       label,
		"files":       ds.Len(),
		"batches":     batches,
		"batch_size":  loader.BatchSize,
		"sample_rate": ds.SampleRate,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var p *mpb.Progress
	var bar *mpb.Bar
	if !datasetNoBar {
		p = mpb.NewWithContext(ctx, mpb.WithWidth(64), mpb.WithOutput(os.Stderr))
		bar = p.AddBar(int64(total),
			mpb.PrependDecorators(
				decor.Name(fmt.Sprintf("%s: ", label)),
				decor.CountersNoUnit("%d / %d"),
			),
			mpb.AppendDecorators(
				decor.Percentage(),
				decor.EwmaETA(decor.ET_STYLE_GO, 60),
			),
		)
	}

	var reports []batchReport
	timer := NewPerformanceTimer()
	timer.StartEvent("load")
	last := time.Now()
	err = loader.Batches(ctx, func(b *dataset.Batch) error {
		reports = append(reports, batchReport{Batch: b.Index, Shape: b.Shape(), Files: b.Paths()})
		if bar != nil {
			bar.EwmaIncrBy(len(b.Items), time.Since(last))
			last = time.Now()
		}
		if len(reports) >= batches {
			return errStopIteration
		}
		return nil
	})
	timer.EndEvent("load")
	if errors.Is(err, errStopIteration) {
		err = nil
	}

	if p != nil {
		if err != nil {
			bar.Abort(false)
		}
		p.Wait()
	}
	if err != nil {
		return err
	}

	if cfg.OutputFormat != "table" {
		return a.Output(reports)
	}

	printSection(fmt.Sprintf("BATCHES (%s)", label))
	for _, r := range reports {
		printKeyValue(fmt.Sprintf("Batch %d", r.Batch), fmt.Sprintf("%v", r.Shape))
		if verbose {
			for _, f := range r.Files {
				printInfo("%s", collection.DisplayName(f))
			}
		}
	}
	fmt.Println()
	printSuccess("%d batch(es), %d file(s) in %v", len(reports), total, timer.GetDuration("load").Round(time.Millisecond))
	return nil
}

var errStopIteration = errors.New("stop iteration")

// mergeDatasetFlags applies explicitly set dataset flags over the config
func mergeDatasetFlags(cmd *cobra.Command, cfg *configs.Config) *configs.Config {
	flags := cmd.Flags()
	if flags.Changed("batch-size") {
		cfg.Dataset.BatchSize = datasetBatchSize
	}
	if flags.Changed("shuffle") {
		cfg.Dataset.Shuffle = datasetShuffle
	}
	if flags.Changed("seed") {
		cfg.Dataset.Seed = datasetSeed
	}
	if flags.Changed("workers") {
		cfg.Dataset.Workers = datasetWorkers
	}
	return cfg
}

// datasetFiles returns the label to iterate and its files
func datasetFiles(store *collection.Store, args []string) (string, []string, error) {
	var label string
	if len(args) == 1 {
		label = args[0]
	} else {
		first, ok := store.FirstLabel()
		if !ok {
			return "", nil, fmt.Errorf("collection has no labels")
		}
		label = first
	}

	files, ok := store.Files(label)
	if !ok {
		return "", nil, collection.NewError("dataset", collection.ErrCodeUnknownLabel,
			fmt.Sprintf("label %q not found", label), nil)
	}
	if len(files) == 0 {
		return "", nil, fmt.Errorf("label %q has no files", label)
	}
	return label, files, nil
}
