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
	"fmt"
	"io"
	"io/ioutil"

	log "github.com/sirupsen/logrus"
)

//
const maxImageSize = 1 << 20

/*
	Image is a read-only disk image with resolved layout. Any trailing error
	table has been cut off.
*/
type Image struct {
	layout *Layout
	data   []byte
}

// NewImage resolves the layout for data. The data is not copied, and must not
// be modified while the image is in use.
func NewImage(f Format, data []byte) (*Image, error) {

	l, err := ResolveLayout(f, len(data))
	if err != nil {
		return nil, err
	}

	log.WithField("layout", l).Debug("disk layout resolved")

	return &Image{layout: l, data: data[:l.DataSize():l.DataSize()]}, nil
}

// ReadImage reads an image of format f from in. Input larger than the
// largest supported image is rejected.
func ReadImage(f Format, in io.Reader) (*Image, error) {
	data, err := ioutil.ReadAll(io.LimitReader(in, maxImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxImageSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrUnsupportedSize,
			maxImageSize)
	}
	return NewImage(f, data)
}

//
func (i *Image) Layout() *Layout {
	return i.layout
}

//
func (i *Image) Directory() ([]*DirEntry, error) {
	return Directory(i.data, i.layout)
}

//
func (i *Image) FirstProgram() (*DirEntry, error) {
	return FirstProgram(i.data, i.layout)
}

//
func (i *Image) ReadFile(e *DirEntry) ([]byte, error) {
	return ReadChain(i.data, i.layout, e.Start)
}

// ExtractFirstProgram locates the first program on the image and returns its
// directory entry and content.
func (i *Image) ExtractFirstProgram() (*DirEntry, []byte, error) {

	e, err := i.FirstProgram()
	if err != nil {
		return nil, nil, err
	}

	log.WithFields(log.Fields{
		"name": e.Name(), "start": e.Start}).Info("found program")

	data, err := i.ReadFile(e)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading '%s': %w", e.Name(), err)
	}

	return e, data, nil
}
