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

package remote

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

//
const (
	DefaultChunkSize = 128
	DefaultTimeout   = 10 * time.Second
	passwordHeader   = "X-Password"
)

// StatusError is returned when the remote API answers with a non-2xx status.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

//
func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Code)
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	return msg
}

/*
	Ultimate talks to the REST API of a C64 Ultimate (or Ultimate 64). It
	implements Memory and Machine.
*/
type Ultimate struct {
	base     string
	password string
	client   *http.Client
	// ChunkSize limits the number of bytes sent per write request; 0 means
	// no limit
	ChunkSize int
}

// NewUltimate creates a client for the API at base, e.g. http://c64u. The
// password is optional.
func NewUltimate(base, password string, timeout time.Duration) *Ultimate {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &Ultimate{
		base:      strings.TrimRight(base, "/"),
		password:  password,
		client:    &http.Client{Timeout: timeout},
		ChunkSize: DefaultChunkSize,
	}
}

//
func (u *Ultimate) String() string {
	return u.base
}

// WriteBlock writes data at address, split into chunks of at most ChunkSize
// bytes. Chunks are written in ascending address order.
func (u *Ultimate) WriteBlock(ctx context.Context, address uint16,
	data []byte) error {

	if err := checkRange(address, len(data)); err != nil {
		return err
	}

	size := u.ChunkSize
	if size <= 0 {
		size = len(data)
	}

	for off := 0; off < len(data); off += size {
		end := off + size
		if end > len(data) {
			end = len(data)
		}
		addr := address + uint16(off)
		if err := u.writeChunk(ctx, addr, data[off:end]); err != nil {
			return err
		}
	}

	return nil
}

// small writes go as hex in the query, larger ones as binary body
func (u *Ultimate) writeChunk(ctx context.Context, address uint16,
	data []byte) error {

	log.WithFields(log.Fields{
		"address": AddressHex(address), "length": len(data),
	}).Trace("writemem")

	params := url.Values{"address": {AddressHex(address)}}

	if len(data) <= 2 {
		params.Set("data", strings.ToUpper(hex.EncodeToString(data)))
		_, err := u.call(ctx, http.MethodPut, "/v1/machine:writemem", params,
			nil)
		return err
	}

	_, err := u.call(ctx, http.MethodPost, "/v1/machine:writemem", params,
		bytes.NewReader(data))
	return err
}

// ReadBlock reads length bytes starting at address.
func (u *Ultimate) ReadBlock(ctx context.Context, address uint16,
	length int) ([]byte, error) {

	if err := checkRange(address, length); err != nil {
		return nil, err
	}

	params := url.Values{
		"address": {AddressHex(address)},
		"length":  {strconv.Itoa(length)},
	}

	data, err := u.call(ctx, http.MethodGet, "/v1/machine:readmem", params, nil)
	if err != nil {
		return nil, err
	}

	if len(data) != length {
		return nil, fmt.Errorf("short read at $%s: want %d bytes, got %d",
			AddressHex(address), length, len(data))
	}

	return data, nil
}

//
func (u *Ultimate) Reset(ctx context.Context) error {
	_, err := u.call(ctx, http.MethodPut, "/v1/machine:reset", nil, nil)
	return err
}

//
func (u *Ultimate) Pause(ctx context.Context) error {
	_, err := u.call(ctx, http.MethodPut, "/v1/machine:pause", nil, nil)
	return err
}

//
func (u *Ultimate) Resume(ctx context.Context) error {
	_, err := u.call(ctx, http.MethodPut, "/v1/machine:resume", nil, nil)
	return err
}

//
func (u *Ultimate) call(ctx context.Context, method, path string,
	params url.Values, body io.Reader) ([]byte, error) {

	target := u.base + path
	if len(params) > 0 {
		target = fmt.Sprintf("%s?%s", target, params.Encode())
	}

	req, err := http.NewRequest(method, target, body)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)

	if body != nil {
		req.Header.Set("Content-Type", "application/octet-stream")
	}
	if u.password != "" {
		req.Header.Set(passwordHeader, u.password)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response for %s %s: %w",
			method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method: method,
			Path:   path,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(data)),
		}
	}

	return data, nil
}
