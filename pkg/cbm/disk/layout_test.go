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

package disk

import (
	"errors"
	"testing"
)

func TestResolveLayout(t *testing.T) {
	tests := []struct {
		name      string
		format    Format
		size      int
		wantErr   error
		tracks    int
		total     int
		errTable  bool
		directory SectorRef
	}{
		{
			name: "D64 35 tracks", format: D64, size: 174848,
			tracks: 35, total: 683, directory: SectorRef{18, 1},
		},
		{
			name: "D64 35 tracks with error table", format: D64, size: 175531,
			tracks: 35, total: 683, errTable: true, directory: SectorRef{18, 1},
		},
		{
			name: "D64 40 tracks", format: D64, size: 196608,
			tracks: 40, total: 768, directory: SectorRef{18, 1},
		},
		{
			name: "D64 40 tracks with error table", format: D64, size: 197376,
			tracks: 40, total: 768, errTable: true, directory: SectorRef{18, 1},
		},
		{
			name: "D71", format: D71, size: 349696,
			tracks: 70, total: 1366, directory: SectorRef{18, 1},
		},
		{
			name: "D71 with error table", format: D71, size: 351062,
			tracks: 70, total: 1366, errTable: true, directory: SectorRef{18, 1},
		},
		{
			name: "D81", format: D81, size: 819200,
			tracks: 80, total: 3200, directory: SectorRef{40, 3},
		},
		{
			name: "D81 with error table", format: D81, size: 822400,
			tracks: 80, total: 3200, errTable: true, directory: SectorRef{40, 3},
		},
		{name: "D64 truncated", format: D64, size: 174847, wantErr: ErrUnsupportedSize},
		{name: "D64 one byte too many", format: D64, size: 174849, wantErr: ErrUnsupportedSize},
		{name: "D71 sized as D64", format: D71, size: 174848, wantErr: ErrUnsupportedSize},
		{name: "D81 sized as D71", format: D81, size: 349696, wantErr: ErrUnsupportedSize},
		{name: "empty", format: D81, size: 0, wantErr: ErrUnsupportedSize},
		{name: "unknown format", format: Format(42), size: 174848, wantErr: ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {

			l, err := ResolveLayout(tt.format, tt.size)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolveLayout() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveLayout() unexpected error = %v", err)
			}

			if l.Tracks() != tt.tracks {
				t.Errorf("Tracks() = %d, want %d", l.Tracks(), tt.tracks)
			}
			if l.TotalSectors() != tt.total {
				t.Errorf("TotalSectors() = %d, want %d", l.TotalSectors(), tt.total)
			}
			if l.HasErrorTable() != tt.errTable {
				t.Errorf("HasErrorTable() = %v, want %v", l.HasErrorTable(), tt.errTable)
			}
			if l.Directory() != tt.directory {
				t.Errorf("Directory() = %s, want %s", l.Directory(), tt.directory)
			}

			sum := 0
			for tr := 1; tr <= l.Tracks(); tr++ {
				n := l.SectorsPerTrack(tr)
				if n <= 0 {
					t.Fatalf("SectorsPerTrack(%d) = %d, want > 0", tr, n)
				}
				sum += n
			}
			if sum != l.TotalSectors() {
				t.Errorf("sum of SectorsPerTrack() = %d, want %d", sum, l.TotalSectors())
			}
		})
	}
}

func TestSectorsPerTrack(t *testing.T) {
	l, err := ResolveLayout(D71, 349696)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		track int
		want  int
	}{
		{0, 0}, {1, 21}, {17, 21}, {18, 19}, {24, 19}, {25, 18}, {30, 18},
		{31, 17}, {35, 17}, {36, 21}, {53, 19}, {70, 17}, {71, 0},
	}
	for _, tt := range tests {
		if got := l.SectorsPerTrack(tt.track); got != tt.want {
			t.Errorf("SectorsPerTrack(%d) = %d, want %d", tt.track, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"d64", D64, false},
		{".D71", D71, false},
		{"D81", D81, false},
		{"g64", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if f, err := FormatOf("/games/Elite.D64"); err != nil || f != D64 {
		t.Errorf("FormatOf() = %v, %v, want d64", f, err)
	}
}
