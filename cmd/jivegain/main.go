package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/linuxmatters/jivegain/internal/cli"
	"github.com/linuxmatters/jivegain/internal/logging"
	"github.com/linuxmatters/jivegain/internal/replaygain"
	"github.com/linuxmatters/jivegain/internal/scanner"
	"github.com/linuxmatters/jivegain/internal/tags"
	"github.com/linuxmatters/jivegain/internal/ui"
)

var (
	version = "0.0.1"
)

// CLI defines the command-line interface. The flag set follows the
// loudgain/mp3gain conventions so jivegain can slot into scripts
// written for those tools.
type CLI struct {
	Version   bool     `short:"v" help:"Show version information"`
	Track     bool     `short:"r" help:"Calculate track gain only (default)"`
	Album     bool     `short:"a" help:"Calculate album gain (and track gain)"`
	Clip      bool     `short:"c" help:"Ignore clipping warnings"`
	NoClip    bool     `short:"k" help:"Lower track/album gain to avoid clipping (<= -1 dBTP)"`
	MaxTPL    *float64 `short:"K" name:"maxtpl" placeholder:"n" help:"Avoid clipping; max. true peak level = n dBTP"`
	PreGain   float64  `short:"d" name:"pregain" placeholder:"n" help:"Apply n dB/LU pre-gain value (-5 for -23 LUFS target)"`
	TagMode   string   `short:"s" name:"tagmode" enum:"d,i,e,l,s" default:"s" help:"d: delete ReplayGain tags, i: write ReplayGain 2.0 tags, e: like i plus extended tags, l: like e but LU units, s: don't write tags (default)"`
	Lowercase bool     `short:"L" help:"Force lowercase 'replaygain_*' tags (non-standard)"`
	StripTags bool     `short:"S" name:"striptags" help:"Accepted for loudgain compatibility; taglib picks the tag type itself"`
	ID3v2     int      `short:"I" name:"id3v2version" default:"4" help:"Accepted for loudgain compatibility; taglib picks the ID3v2 version itself"`
	Output    bool     `short:"o" help:"Database-friendly tab-delimited list output (mp3gain-compatible)"`
	OutputNew bool     `short:"O" name:"output-new" help:"Database-friendly new format tab-delimited list output"`
	Quiet     bool     `short:"q" help:"Don't show scan progress"`
	Files     []string `arg:"" name:"files" help:"Audio files to scan" type:"existingfile" optional:""`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("jivegain"),
		kong.Description("EBU R128 loudness scanner and ReplayGain 2.0 tagger"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	// Handle version flag
	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	// Validate input
	if len(cliArgs.Files) == 0 {
		cli.PrintError("No input files specified")
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if cliArgs.StripTags {
		slog.Info("--striptags has no effect; the tag layer manages tag types")
	}
	if cliArgs.ID3v2 != 4 {
		slog.Info("--id3v2version has no effect; the tag layer manages ID3v2 versions")
	}

	// Delete mode touches no audio data at all
	if cliArgs.TagMode == "d" {
		os.Exit(deleteTags(cliArgs.Files))
	}

	maxTPL := replaygain.DefaultMaxTruePeak
	if cliArgs.MaxTPL != nil {
		maxTPL = *cliArgs.MaxTPL
	}
	cfg := scanner.Config{
		PreGain:          cliArgs.PreGain,
		Album:            cliArgs.Album,
		MaxTruePeakLevel: maxTPL,
		WarnClip:         !cliArgs.Clip,
		PreventClip:      cliArgs.NoClip || cliArgs.MaxTPL != nil,
	}

	unit := "dB"
	if cliArgs.TagMode == "l" {
		unit = "LU"
	}

	var batch scanner.BatchResult
	var albumErr error
	if cliArgs.Quiet || cliArgs.Output || cliArgs.OutputNew {
		batch, albumErr = scanner.ScanBatch(cliArgs.Files, cfg, nil)
	} else {
		batch, albumErr = scanWithUI(cliArgs.Files, cfg)
	}

	// Results to stdout
	switch {
	case cliArgs.Output:
		logging.WriteMP3GainList(os.Stdout, batch)
	case cliArgs.OutputNew:
		logging.WriteNewList(os.Stdout, batch, unit)
	case cliArgs.Quiet:
		logging.WriteHuman(os.Stdout, batch, unit)
	}

	exitCode := 0
	for _, res := range batch.Results {
		if res.Err != nil {
			slog.Error("scanning file", "path", res.Path, "err", res.Err)
			exitCode = 1
		}
	}
	if albumErr != nil {
		// Distinct from per-file failures: the album figure is missing
		// for the whole run even though some tracks scanned fine.
		slog.Error("album aggregation failed", "err", albumErr)
		exitCode = 1
	}

	if cliArgs.TagMode != "s" {
		if err := writeTags(batch, cliArgs, unit); err != nil {
			slog.Error("writing tags", "err", err)
			exitCode = 1
		}
	}

	os.Exit(exitCode)
}

// scanWithUI runs the batch behind the Bubbletea progress display.
func scanWithUI(files []string, cfg scanner.Config) (scanner.BatchResult, error) {
	model := ui.NewModel(files, cfg.Album)
	p := tea.NewProgram(model)

	type outcome struct {
		batch    scanner.BatchResult
		albumErr error
	}
	done := make(chan outcome, 1)

	go func() {
		batch, albumErr := scanner.ScanBatch(files, cfg, func(ev scanner.Event) {
			if ev.Done {
				p.Send(ui.FileCompleteMsg{FileIndex: ev.Index, Result: ev.Res})
			} else {
				p.Send(ui.FileStartMsg{FileIndex: ev.Index, FileName: ev.Path})
			}
		})
		done <- outcome{batch, albumErr}
		p.Send(ui.AllCompleteMsg{Album: batch.Album, AlbumErr: albumErr})
	}()

	if _, err := p.Run(); err != nil {
		cli.PrintError(fmt.Sprintf("UI error: %v", err))
	}

	out := <-done
	return out.batch, out.albumErr
}

// writeTags stores the computed records in each successfully scanned
// file. Tag failures are collected per file so one bad file does not
// stop the rest.
func writeTags(batch scanner.BatchResult, cliArgs *CLI, unit string) error {
	opts := tags.WriteOptions{
		Extended:  cliArgs.TagMode == "e" || cliArgs.TagMode == "l",
		Unit:      unit,
		Lowercase: cliArgs.Lowercase,
	}

	var album *replaygain.ReplayGain
	if batch.Album != nil {
		album = &batch.Album.ReplayGain
	}

	var errs []error
	for _, res := range batch.Results {
		if res.Err != nil {
			continue
		}
		if err := tags.Write(res.Path, res.Track.ReplayGain, album, opts); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// deleteTags strips ReplayGain tags from every file.
func deleteTags(files []string) (exitCode int) {
	for _, path := range files {
		if err := tags.Delete(path); err != nil {
			slog.Error("deleting tags", "path", path, "err", err)
			exitCode = 1
		}
	}
	return exitCode
}
