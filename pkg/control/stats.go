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

package control

import (
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	log "github.com/sirupsen/logrus"
)

//
const DefaultStatsAddress = "localhost:12600"

// LaunchStats starts the runtime stats viewer in a new goroutine.
func LaunchStats(addr string) {

	if addr == "" {
		addr = DefaultStatsAddress
	}

	go func() {
		viewer.SetConfiguration(viewer.WithAddr(addr))
		mgr := statsview.New()
		mgr.Start()
	}()

	log.Infof("stats viewer available at http://%s/debug/statsview", addr)
}
