package main

import (
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/iburimskiy/particle-mirror/internal/config"
	"github.com/iburimskiy/particle-mirror/internal/game"
	"github.com/ncruces/zenity"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	video      string
	audio      string
	sensor     string
	grid       int
	clampBass  bool
	permission string
}

func main() {
	var opts options
	cmd := &cobra.Command{
		Use:   "particle-mirror",
		Short: "Audio-reactive point cloud mirror of a looping video",
		Long: `particle-mirror samples a looping video with a dense grid of points,
pushes bright points toward the camera in time with the bass of an audio
track and renders the cloud with bloom. Drag or scroll to orbit; press O or
click the button to drive the camera from device orientation.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML settings file")
	flags.StringVar(&opts.video, "video", "", "video file (GIF, or anything ffmpeg decodes)")
	flags.StringVar(&opts.audio, "audio", "", "audio file (wav, mp3 or flac)")
	flags.StringVar(&opts.sensor, "sensor", "", "orientation recording to replay (CSV t_ms,alpha,beta,gamma)")
	flags.IntVar(&opts.grid, "grid", 0, "points along each side of the grid")
	flags.BoolVar(&opts.clampBass, "clamp-bass", false, "clamp bass strength to [0,1]")
	flags.StringVar(&opts.permission, "permission", "", "orientation permission style: prompt or implicit")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, opts options) error {
	settings, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("video") {
		settings.Media.Video = opts.video
	}
	if flags.Changed("audio") {
		settings.Media.Audio = opts.audio
	}
	if flags.Changed("sensor") {
		settings.Sensor.Replay = opts.sensor
	}
	if flags.Changed("grid") {
		settings.Grid.Size = opts.grid
	}
	if flags.Changed("clamp-bass") {
		settings.Audio.ClampBass = opts.clampBass
	}
	if flags.Changed("permission") {
		settings.Orientation.Permission = opts.permission
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	if settings.Media.Video == "" {
		if settings.Media.Video, err = selectFile("Open Video File", "Video", "*.gif", "*.mp4", "*.webm", "*.mov", "*.mkv"); err != nil {
			return err
		}
	}
	if settings.Media.Audio == "" {
		if settings.Media.Audio, err = selectFile("Open Audio File", "Audio", "*.wav", "*.mp3", "*.flac"); err != nil {
			return err
		}
	}

	scene, err := game.NewScene(settings, config.WindowWidth, config.WindowHeight)
	if err != nil {
		return err
	}
	defer scene.Close()

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle(config.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(game.NewGame(scene)); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// selectFile asks for a media file the command line did not name.
func selectFile(title, kind string, patterns ...string) (string, error) {
	filename, err := zenity.SelectFile(
		zenity.Title(title),
		zenity.FileFilters{{
			Name:     kind,
			Patterns: patterns,
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", errors.Errorf("no %s file selected", strings.ToLower(kind))
		}
		return "", errors.Wrap(err, "file dialog")
	}
	log.Printf("Selected %s file %v", kind, filename)
	return filename, nil
}
