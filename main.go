package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/shoccho/pnGo/config"
	"github.com/shoccho/pnGo/export"
	"github.com/shoccho/pnGo/logging"
	"github.com/shoccho/pnGo/oops"
	"github.com/shoccho/pnGo/pngDecoder"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var rootCommand = &cobra.Command{
	Use:   "pngo",
	Short: "Decode 8-bit RGBA PNG files",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		levelName, _ := cmd.Flags().GetString("log-level")
		level, err := zerolog.ParseLevel(levelName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid log level %q\n", levelName)
			os.Exit(1)
		}
		config.Config.LogLevel = level
		logging.SetLevel(level)

		config.Config.MaxImageBytes, _ = cmd.Flags().GetUint64("max-image-bytes")
		config.Config.Workers, _ = cmd.Flags().GetInt("workers")
	},
}

func init() {
	rootCommand.PersistentFlags().String("log-level", config.Config.LogLevel.String(), "trace, debug, info, warn or error")
	rootCommand.PersistentFlags().Uint64("max-image-bytes", config.Config.MaxImageBytes, "largest decompressed image data to accept (0 for no limit)")
	rootCommand.PersistentFlags().Int("workers", config.Config.Workers, "files to decode at once")

	decodeCommand := &cobra.Command{
		Use:   "decode [png files...]",
		Short: "Decode PNG files and write them out as another format",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			defer logging.LogPanics(nil)

			outDir, _ := cmd.Flags().GetString("out")
			format, _ := cmd.Flags().GetString("format")
			if _, err := export.Lookup(format); err != nil {
				logging.Error().Err(err).Msg("bad output format")
				os.Exit(1)
			}
			config.Config.OutputFormat = format

			if err := decodeAll(args, outDir, format); err != nil {
				os.Exit(1)
			}
		},
	}
	decodeCommand.Flags().String("out", "", "directory for output files (default: next to each input)")
	decodeCommand.Flags().String("format", config.Config.OutputFormat, fmt.Sprintf("output format, one of %v", export.Formats()))
	rootCommand.AddCommand(decodeCommand)

	chunksCommand := &cobra.Command{
		Use:   "chunks [png file]",
		Short: "List the chunks of a PNG file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ins := inspect(args[0])
			for _, chunk := range ins.Chunks {
				fmt.Printf("%s\tlength=%d\tcrc=%08x\tcritical=%v\n", chunk.Type(), chunk.Length(), chunk.CRC(), chunk.Critical())
			}
		},
	}
	rootCommand.AddCommand(chunksCommand)

	headerCommand := &cobra.Command{
		Use:   "header [png file]",
		Short: "Print the image header of a PNG file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ins := inspect(args[0])
			if ins.HeaderErr != nil {
				logging.Error().Err(ins.HeaderErr).Str("file", args[0]).Msg("unsupported header")
				os.Exit(1)
			}
			fmt.Println(ins.Header)
		},
	}
	rootCommand.AddCommand(headerCommand)
}

func inspect(path string) *pngDecoder.Inspection {
	ins, err := pngDecoder.InspectFile(path)
	if err != nil {
		logging.Error().Err(err).Str("file", path).Str("kind", pngDecoder.KindOf(err).String()).Msg("failed to read png")
		os.Exit(1)
	}
	return ins
}

// decodeAll decodes every file, a few at a time, and reports the first
// failure after all of them have been tried.
func decodeAll(paths []string, outDir, format string) error {
	opts := pngDecoder.DefaultOptions()

	workers := config.Config.Workers
	if workers < 1 {
		workers = 1
	}

	var group errgroup.Group
	group.SetLimit(workers)
	for _, path := range paths {
		path := path
		group.Go(func() (err error) {
			defer recoverWorker(path, &err)

			img, err := pngDecoder.DecodeFileWithOptions(path, opts)
			if err != nil {
				logging.Error().Err(err).Str("file", path).Str("kind", pngDecoder.KindOf(err).String()).Msg("failed to decode png")
				return err
			}

			out := export.OutputName(path, format)
			if outDir != "" {
				out = filepath.Join(outDir, filepath.Base(out))
			}
			if err := export.WriteFile(out, format, img); err != nil {
				logging.Error().Err(err).Str("file", path).Msg("failed to write output")
				return err
			}
			logging.Info().
				Str("file", path).
				Str("out", out).
				Uint32("width", img.Width).
				Uint32("height", img.Height).
				Msg("decoded")
			return nil
		})
	}
	return group.Wait()
}

// recoverWorker turns a panic in a decode worker into that worker's error so
// one bad file cannot take down the whole run.
func recoverWorker(path string, err *error) {
	if r := recover(); r != nil {
		logger := logging.GlobalLogger().With().Str("file", path).Logger()
		logging.LogPanicValue(&logger, r, "decode worker panicked")
		*err = oops.New(nil, "decoding %s panicked: %v", path, r)
	}
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
