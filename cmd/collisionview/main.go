package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/TychoHenzen/OctarineCodex/config"
	"github.com/TychoHenzen/OctarineCodex/logging"
)

func main() {
	configPath := flag.String("config", "", "config file (.yaml, .yml or .toml)")
	levelName := flag.String("level", "", "level file in the levels dir (.json or .tmx), overrides the config")
	watch := flag.Bool("watch", false, "reload levels when they change on disk")
	flag.Parse()

	cfg := config.Defaults()
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = c
	}
	if *levelName != "" {
		cfg.Viewer.Level = *levelName
	}
	if *watch {
		cfg.Viewer.Watch = true
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	viewer, err := NewViewer(cfg, logger)
	if err != nil {
		logger.Fatal("start viewer", zap.Error(err))
	}
	defer viewer.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("collisionview")

	if err := ebiten.RunGame(NewGame(viewer)); err != nil {
		logger.Fatal("run", zap.Error(err))
	}
}
