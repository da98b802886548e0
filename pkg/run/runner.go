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
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/xelalexv/diskrun/pkg/loader"
	"github.com/xelalexv/diskrun/pkg/remote"
)

//
const runnerHelpPrologue = ""
const runnerHelpEpilogue = `- When a flag can be set via environment variable, the variable name is given
  in parenthesis at the end of the flag explanation. Note however that a flag,
  when specified overrides an environment variable.
`

// file system for local image and program files
var fs = afero.NewOsFs()

/*
	NewRunner creates a base runner for commands to use. The parameters are
	passed to the base command wrapped by this runner.
*/
func NewRunner(use, short, long, helpPrologue, helpEpilogue string,
	exec func() error) *Runner {
	return &Runner{
		Command: *NewCommand(
			use, short, long, helpPrologue, helpEpilogue, exec),
	}
}

//
type Runner struct {
	//
	Command
	//
	Address string
	//
	Target       string
	Password     string
	Timeout      time.Duration
	Chunk        int
	Retries      int
	Backoff      time.Duration
	PollInterval time.Duration
	PollAttempts int
	ResetDelay   time.Duration
	NoReset      bool
}

// AddBaseSettings adds the settings for reaching the daemon.
func (r *Runner) AddBaseSettings() {
	r.AddSetting(&r.Address, "address", "a", true,
		"127.0.0.1:8888", "listen address of daemon's API server", false)
}

// AddTargetSettings adds the settings for talking to the target machine.
func (r *Runner) AddTargetSettings() {
	r.AddSetting(&r.Target, "target", "t", true, nil,
		"host name or URL of the C64 Ultimate", true)
	r.AddSetting(&r.Password, "password", "", true, nil,
		"password for the C64 Ultimate's API", false)
	r.AddSetting(&r.Timeout, "timeout", "", true, remote.DefaultTimeout,
		"timeout for a single request to the target", false)
}

// AddLoaderSettings adds the settings tuning the program loader.
func (r *Runner) AddLoaderSettings() {
	r.AddSetting(&r.Chunk, "chunk", "", true, remote.DefaultChunkSize,
		"maximum bytes per write request; 0 for no limit", false)
	r.AddSetting(&r.Retries, "retries", "", true, loader.DefaultRetries,
		"attempts for writing a program to the target", false)
	r.AddSetting(&r.Backoff, "backoff", "", true, loader.DefaultBackoff,
		"delay between write attempts, grows with each attempt", false)
	r.AddSetting(&r.PollInterval, "poll-interval", "", true,
		loader.DefaultPollInterval, "keyboard buffer poll interval", false)
	r.AddSetting(&r.PollAttempts, "poll-attempts", "", true,
		loader.DefaultPollAttempts,
		"keyboard buffer polls before giving up", false)
	r.AddSetting(&r.ResetDelay, "reset-delay", "", true,
		loader.DefaultResetDelay, "time to wait for target to boot after reset",
		false)
	r.AddSetting(&r.NoReset, "no-reset", "n", true, false,
		"do not reset target before loading", false)
}

// ultimate creates the client for the target. Unless the loader settings were
// added, writes are not split into chunks.
func (r *Runner) ultimate() *remote.Ultimate {
	ret := remote.NewUltimate(r.Target, r.Password, r.Timeout)
	ret.ChunkSize = r.Chunk
	return ret
}

//
func (r *Runner) loaderOptions() *loader.Options {
	return &loader.Options{
		Retries:      r.Retries,
		Backoff:      r.Backoff,
		PollInterval: r.PollInterval,
		PollAttempts: r.PollAttempts,
		ResetDelay:   r.ResetDelay,
		NoReset:      r.NoReset,
	}
}

//
func (r *Runner) apiCall(method, path string, json bool,
	body io.Reader) (io.ReadCloser, error) {

	client := &http.Client{}
	req, err := http.NewRequest(
		method, fmt.Sprintf("http://%s%s", r.Address, path), body)
	if err != nil {
		return nil, err
	}

	if json {
		req.Header.Add("Content-Type", "application/json")
		req.Header.Add("Accept", "application/json")
	} else {
		req.Header.Add("Content-Type", "text/plain")
		req.Header.Add("Accept", "text/plain")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		msg, _ := ioutil.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%s: %s", resp.Status,
			strings.TrimSpace(string(msg)))
	}

	return resp.Body, nil
}

//
func getExtension(file string) string {
	return strings.TrimPrefix(filepath.Ext(file), ".")
}

//
func query(args ...string) string {
	v := url.Values{}
	for ix := 0; ix+1 < len(args); ix += 2 {
		if args[ix+1] != "" {
			v.Set(args[ix], args[ix+1])
		}
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}
