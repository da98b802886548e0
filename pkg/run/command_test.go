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
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/diskrun/pkg/loader"
)

func newTestRunner() *Runner {
	var r *Runner
	r = NewRunner("test", "", "", "", "", func() error {
		return r.ParseSettings()
	})
	r.AddTargetSettings()
	r.AddLoaderSettings()
	return r
}

func setEnv(t *testing.T, key, val string) {
	t.Helper()
	orig, had := os.LookupEnv(key)
	os.Setenv(key, val)
	t.Cleanup(func() {
		if had {
			os.Setenv(key, orig)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestEnvName(t *testing.T) {
	tests := map[string]string{
		"target":        "DISKRUN_TARGET",
		"poll-interval": "DISKRUN_POLL_INTERVAL",
		"no-reset":      "DISKRUN_NO_RESET",
	}
	for flag, want := range tests {
		if got := envName(flag); got != want {
			t.Errorf("envName(%q) = %q, want %q", flag, got, want)
		}
	}
}

func TestSettingsDefaults(t *testing.T) {
	r := newTestRunner()
	if err := r.Execute([]string{"-t", "c64u"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if r.Target != "c64u" || r.Retries != loader.DefaultRetries ||
		r.Backoff != loader.DefaultBackoff || r.NoReset {
		t.Errorf("settings = %+v", r.loaderOptions())
	}
}

func TestSettingsFromEnv(t *testing.T) {

	setEnv(t, "DISKRUN_TARGET", "c64u")
	setEnv(t, "DISKRUN_RETRIES", "5")
	setEnv(t, "DISKRUN_BACKOFF", "2s")
	setEnv(t, "DISKRUN_NO_RESET", "true")

	r := newTestRunner()
	if err := r.Execute([]string{"--backoff", "250ms"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if r.Target != "c64u" {
		t.Errorf("target = %q, want %q", r.Target, "c64u")
	}
	if r.Retries != 5 {
		t.Errorf("retries = %d, want 5", r.Retries)
	}
	if r.Backoff != 250*time.Millisecond {
		t.Errorf("backoff = %v, want flag value 250ms", r.Backoff)
	}
	if !r.NoReset {
		t.Error("no-reset from environment not applied")
	}
}

func TestSettingsErrors(t *testing.T) {

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "missing target",
			args: nil,
			want: "--target command line flag or the DISKRUN_TARGET",
		},
		{
			name: "negative duration",
			args: []string{"-t", "c64u", "--reset-delay", "-1s"},
			want: "--reset-delay must not be negative",
		},
		{
			name: "negative count",
			args: []string{"-t", "c64u", "--retries", "-2"},
			want: "--retries must not be negative",
		},
		{
			name: "malformed duration",
			args: []string{"-t", "c64u", "--backoff", "soon"},
			want: "invalid argument",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestRunner().Execute(tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Execute() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestAddSettingBadDefault(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("AddSetting() with mistyped default did not die")
		}
	}()
	var d time.Duration
	NewCommand("test", "", "", "", "", nil).AddSetting(
		&d, "delay", "", false, 5, "delay", false)
}

func TestConfigureLogging(t *testing.T) {

	orig := log.GetLevel()
	defer log.SetLevel(orig)

	env := map[string]string{"LOG_LEVEL": "debug"}
	if err := configureLogging(func(k string) string { return env[k] }); err != nil {
		t.Fatalf("configureLogging() error = %v", err)
	}
	if log.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", log.GetLevel())
	}

	env["LOG_LEVEL"] = "loud"
	if err := configureLogging(func(k string) string { return env[k] }); err == nil {
		t.Error("configureLogging() with invalid level succeeded")
	}
}
