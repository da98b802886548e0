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

func TestOffsetMonotonic(t *testing.T) {
	for f, candidates := range geometries {
		for ix := range candidates {
			l := newLayout(f, candidates[ix])
			last := -1
			count := 0
			for tr := 1; tr <= l.Tracks(); tr++ {
				for s := 0; s < l.SectorsPerTrack(tr); s++ {
					off, err := l.Offset(SectorRef{tr, s})
					if err != nil {
						t.Fatalf("%s: Offset(%d/%d) error = %v", l, tr, s, err)
					}
					if off <= last {
						t.Fatalf("%s: Offset(%d/%d) = %d, not above %d", l, tr, s, off, last)
					}
					if off%SectorSize != 0 {
						t.Fatalf("%s: Offset(%d/%d) = %d, not sector aligned", l, tr, s, off)
					}
					last = off
					count++
				}
			}
			if count != l.TotalSectors() {
				t.Errorf("%s: visited %d sectors, want %d", l, count, l.TotalSectors())
			}
			if last != l.DataSize()-SectorSize {
				t.Errorf("%s: last offset %d, want %d", l, last, l.DataSize()-SectorSize)
			}
		}
	}
}

func TestOffset(t *testing.T) {
	l, err := ResolveLayout(D64, 174848)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name    string
		ref     SectorRef
		want    int
		wantErr error
	}{
		{"first sector", SectorRef{1, 0}, 0, nil},
		{"second sector", SectorRef{1, 1}, 256, nil},
		{"directory header", SectorRef{18, 0}, 0x16500, nil},
		{"first directory sector", SectorRef{18, 1}, 0x16600, nil},
		{"track 0", SectorRef{0, 0}, -1, ErrInvalidTrack},
		{"track 36", SectorRef{36, 0}, -1, ErrInvalidTrack},
		{"sector 21 on track 1", SectorRef{1, 21}, -1, ErrInvalidSector},
		{"sector 19 on track 18", SectorRef{18, 19}, -1, ErrInvalidSector},
		{"negative sector", SectorRef{1, -1}, -1, ErrInvalidSector},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.Offset(tt.ref)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Offset() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Offset() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReadSectorShort(t *testing.T) {
	img, l := blankImage(t, D64, 0, false)

	if _, err := ReadSector(img, l, SectorRef{35, 16}); err != nil {
		t.Fatalf("ReadSector() on last sector error = %v", err)
	}

	short := img[:len(img)-10]
	if _, err := ReadSector(short, l, SectorRef{35, 16}); !errors.Is(err, ErrShortSector) {
		t.Errorf("ReadSector() on truncated image error = %v, want %v", err, ErrShortSector)
	}
}
