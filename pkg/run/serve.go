/*
   DiskRun - Commodore disk image runner
   Copyright (c) 2021, Alexander Vollschwitz

   This file is part of DiskRun.

   DiskRun is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   DiskRun is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with DiskRun. If not, see <http://www.gnu.org/licenses/>.
*/

package run

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/diskrun/pkg/control"
	"github.com/xelalexv/diskrun/pkg/daemon"
	"github.com/xelalexv/diskrun/pkg/repo"
)

//
func NewServe() *Serve {

	s := &Serve{}
	s.Runner = *NewRunner(
		`serve -t|--target {target} [-a|--address {address}] [-r|--repo {repo base folder}]
      [--stats] [--stats-address {address}]`,
		"daemon & API server command",
		`Use the serve command for running the daemon and API server. The daemon
takes disk images and program files via its API, and starts them on the
target C64 Ultimate.`,
		"", `- Logging can be configured with these environment variables:

  LOG_FORMAT		set to 'json' for JSON logging
  LOG_FORCE_COLORS	set to non-empty for forcing colorized log entries
  LOG_METHODS		set to non-empty for including methods in log
  LOG_LEVEL		panic, fatal, error, warn, info, debug, trace

`+runnerHelpEpilogue, s.Run)

	s.AddBaseSettings()
	s.AddTargetSettings()
	s.AddLoaderSettings()
	s.AddSetting(&s.Repository, "repo", "r", true, nil,
		`image repo base folder; when omitted, loading images
from daemon host's file system is prohibited`, false)
	s.AddSetting(&s.Stats, "stats", "", false, false,
		"serve runtime statistics", false)
	s.AddSetting(&s.StatsAddress, "stats-address", "", false,
		control.DefaultStatsAddress, "listen address for runtime statistics",
		false)

	return s
}

//
type Serve struct {
	//
	Runner
	//
	Repository   string
	Stats        bool
	StatsAddress string
}

//
func (s *Serve) Run() error {

	if err := s.ParseSettings(); err != nil {
		return err
	}

	if s.Stats {
		control.LaunchStats(s.StatsAddress)
	}

	target := s.ultimate()
	log.WithField("target", target).Info("using target")

	d := daemon.NewDaemon(target, s.loaderOptions())
	api := control.NewAPIServer(s.Address, d, repo.NewOsResolver(s.Repository))

	wg := &sync.WaitGroup{}
	wg.Add(1)

	go func() {
		defer wg.Done()
		if err := api.Serve(); err != nil {
			log.Errorf("API server closed with error: %v", err)
		} else {
			log.Info("API server stopped")
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	sigCount := 0
	done := make(chan bool)

	for {

		select {

		case sig := <-sigs: // interrupt signal
			log.WithField("signal", sig).Info("signal received")
			sigCount++

			switch sigCount {

			case 1:
				go func() {
					log.Info("shutting down, hit Ctrl-C twice to force exit...")
					api.Stop()
					wg.Wait()
					log.Info("DiskRun stopped")
					done <- true
				}()

			case 2:
				log.Warn("shutdown in progress, hit Ctrl-C again to force exit")

			default:
				log.Warn("forcing daemon to stop immediately")
				os.Exit(1)
			}

		case <-done: // shutdown sequence complete
			return nil
		}
	}
}
