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

package repo

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/xelalexv/diskrun/pkg/cbm/disk"
)

//
const PrefixRepoRef = "repo://"

//
var (
	ErrNoRepository = errors.New("image repository is not enabled")
	ErrInvalidRef   = errors.New("invalid reference")
)

// Resolver resolves image references against a repository directory.
type Resolver struct {
	fs afero.Fs
}

// NewResolver creates a resolver for the repository at root on fs. An empty
// root disables the repository.
func NewResolver(fs afero.Fs, root string) *Resolver {
	if root == "" {
		return &Resolver{}
	}
	return &Resolver{fs: afero.NewBasePathFs(fs, root)}
}

// NewOsResolver creates a resolver for a repository on the local file
// system.
func NewOsResolver(root string) *Resolver {
	return NewResolver(afero.NewOsFs(), root)
}

//
func (r *Resolver) Enabled() bool {
	return r != nil && r.fs != nil
}

/*
	Resolve opens the image referenced by ref, which has to start with
	PrefixRepoRef. The path following the prefix is relative to the
	repository root, and must not leave it. The disk format is derived from
	the file extension.
*/
func (r *Resolver) Resolve(ref string) (io.ReadCloser, disk.Format, error) {

	log.WithField("reference", ref).Debug("resolving ref")

	if !IsReference(ref) {
		return nil, 0, fmt.Errorf("%w: '%s' is not a repository reference",
			ErrInvalidRef, ref)
	}

	if !r.Enabled() {
		return nil, 0, ErrNoRepository
	}

	p := ref[len(PrefixRepoRef):]
	clean := path.Clean("/" + p)
	if clean == "/" || escapes(p) {
		return nil, 0, fmt.Errorf("%w: '%s'", ErrInvalidRef, ref)
	}

	f, err := disk.FormatOf(clean)
	if err != nil {
		return nil, 0, err
	}

	file, err := r.fs.Open(clean)
	if err != nil {
		return nil, 0, err
	}

	if fi, err := file.Stat(); err != nil {
		file.Close()
		return nil, 0, err
	} else if fi.IsDir() {
		file.Close()
		return nil, 0, fmt.Errorf("%w: '%s' is a directory", ErrInvalidRef, ref)
	}

	return file, f, nil
}

// List returns references for all disk images in the repository.
func (r *Resolver) List() ([]string, error) {

	if !r.Enabled() {
		return nil, ErrNoRepository
	}

	var ret []string
	err := afero.Walk(r.fs, "/", func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		if _, ferr := disk.FormatOf(p); ferr == nil {
			ret = append(ret, PrefixRepoRef+strings.TrimPrefix(p, "/"))
		}
		return nil
	})

	return ret, err
}

// escapes tells whether p tries to climb above the repository root
func escapes(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

//
func IsReference(r string) bool {
	return strings.HasPrefix(r, PrefixRepoRef)
}
