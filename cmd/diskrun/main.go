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

package main

import (
	"fmt"
	"os"

	"github.com/xelalexv/diskrun/pkg/run"
)

//
var DiskRunVersion string

//
func synopsis() {
	fmt.Print(`
synopsis: diskrun {serve|load|run|ls|extract|status|mem|version} ...

run 'diskrun {action} -h|--help' to see detailed info

`)
}

//
func version() {
	fmt.Printf("\nDiskRun %s\n\n", DiskRunVersion)
}

//
func main() {

	var action string
	var args []string

	if len(os.Args) > 1 {
		action = os.Args[1]
	}

	if len(os.Args) > 2 {
		args = os.Args[2:]
	}

	switch action {

	case "serve":
		version()
		run.DieOnError(run.NewServe().Execute(args))

	case "load":
		run.DieOnError(run.NewLoad().Execute(args))

	case "run":
		run.DieOnError(run.NewStart().Execute(args))

	case "ls":
		run.DieOnError(run.NewList().Execute(args))

	case "extract":
		run.DieOnError(run.NewExtract().Execute(args))

	case "status":
		run.DieOnError(run.NewStatus().Execute(args))

	case "mem":
		run.DieOnError(run.NewMem().Execute(args))

	case "version":
		version()

	case "":
		fallthrough
	case "-h":
		fallthrough
	case "--help":
		synopsis()

	default:
		run.Die("unknown action: %s\n", action)
	}
}
