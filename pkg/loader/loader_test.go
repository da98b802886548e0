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

package loader

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/xelalexv/diskrun/pkg/cbm/disk"
	"github.com/xelalexv/diskrun/pkg/cbm/program"
	"github.com/xelalexv/diskrun/pkg/remote"
	"github.com/xelalexv/diskrun/pkg/remote/fake"
	"github.com/xelalexv/diskrun/pkg/remote/mock"
)

var errWrite = errors.New("connection refused")

// sleeper records requested delays instead of waiting
type sleeper struct {
	delays []time.Duration
}

func (s *sleeper) sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return ctx.Err()
}

func testOptions(s *sleeper) *Options {
	o := DefaultOptions()
	o.Sleep = s.sleep
	return o
}

// helloImage returns a 35 track D64 image holding one program HELLO in
// sector 1/0, loading one byte 0xaa at $0801
func helloImage() []byte {
	img := make([]byte, 683*disk.SectorSize)
	dir := 0x16600 // 18/1
	img[dir+2] = 0x82
	img[dir+3] = 1
	img[dir+4] = 0
	name := []byte("HELLO")
	for ix := 0; ix < 16; ix++ {
		c := byte(0xa0)
		if ix < len(name) {
			c = name[ix]
		}
		img[dir+5+ix] = c
	}
	img[dir+30] = 1
	copy(img, []byte{0x00, 0x03, 0x01, 0x08, 0xaa})
	return img
}

func TestLoadFirstProgramHello(t *testing.T) {

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mem := mock.NewMockMemory(ctrl)
	s := &sleeper{}
	opts := testOptions(s)

	gomock.InOrder(
		mem.EXPECT().WriteBlock(gomock.Any(), uint16(0x0801), []byte{0xaa}).
			Return(nil),
		mem.EXPECT().ReadBlock(gomock.Any(), uint16(0x00c6), 1).
			Return([]byte{2}, nil),
		mem.EXPECT().ReadBlock(gomock.Any(), uint16(0x00c6), 1).
			Return([]byte{0}, nil),
		mem.EXPECT().WriteBlock(gomock.Any(), uint16(0x0277),
			[]byte("SYS 2049\r")).Return(nil),
		mem.EXPECT().WriteBlock(gomock.Any(), uint16(0x00c6), []byte{9}).
			Return(nil),
	)

	image := helloImage()
	orig := append([]byte(nil), image...)

	res, err := New(mem, opts).LoadFirstProgram(
		context.Background(), image, disk.D64)
	if err != nil {
		t.Fatalf("LoadFirstProgram() error = %v", err)
	}

	want := &Result{Name: "HELLO", LoadAddress: 0x0801, End: 0x0802,
		Command: "SYS 2049"}
	if !reflect.DeepEqual(res, want) {
		t.Errorf("LoadFirstProgram() = %+v, want %+v", res, want)
	}
	if !reflect.DeepEqual(s.delays, []time.Duration{opts.PollInterval}) {
		t.Errorf("delays = %v, want one poll interval", s.delays)
	}
	if !bytes.Equal(image, orig) {
		t.Error("image was modified")
	}
}

func TestLoadFirstProgramNoProgram(t *testing.T) {

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// no expectations, nothing must be sent to the target
	mem := mock.NewMockMemory(ctrl)

	_, err := New(mem, testOptions(&sleeper{})).LoadFirstProgram(
		context.Background(), make([]byte, 683*disk.SectorSize), disk.D64)
	if !errors.Is(err, disk.ErrNoProgram) {
		t.Errorf("LoadFirstProgram() error = %v, want %v", err, disk.ErrNoProgram)
	}

	_, err = New(mem, testOptions(&sleeper{})).LoadFirstProgram(
		context.Background(), make([]byte, 1000), disk.D64)
	if !errors.Is(err, disk.ErrUnsupportedSize) {
		t.Errorf("LoadFirstProgram() error = %v, want %v", err,
			disk.ErrUnsupportedSize)
	}
}

func TestTransferRetries(t *testing.T) {

	tests := []struct {
		name       string
		retries    int
		failures   int
		wantErr    bool
		wantDelays []time.Duration
	}{
		{
			name: "first attempt", retries: 3, failures: 0,
		},
		{
			name: "second attempt", retries: 3, failures: 1,
			wantDelays: []time.Duration{100 * time.Millisecond},
		},
		{
			name: "exhausted", retries: 3, failures: 3, wantErr: true,
			wantDelays: []time.Duration{
				100 * time.Millisecond, 200 * time.Millisecond},
		},
		{
			name: "single attempt", retries: 1, failures: 1, wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mem := mock.NewMockMemory(ctrl)
			s := &sleeper{}
			opts := testOptions(s)
			opts.Retries = tt.retries
			opts.Backoff = 100 * time.Millisecond

			var calls []*gomock.Call
			for ix := 0; ix < tt.failures; ix++ {
				calls = append(calls, mem.EXPECT().WriteBlock(
					gomock.Any(), uint16(0xc000), gomock.Any()).Return(errWrite))
			}
			if tt.failures < tt.retries {
				calls = append(calls, mem.EXPECT().WriteBlock(
					gomock.Any(), uint16(0xc000), gomock.Any()).Return(nil))
			}
			gomock.InOrder(calls...)

			p := &program.Payload{LoadAddress: 0xc000, Body: []byte{0x60}}
			err := New(mem, opts).Transfer(context.Background(), p,
				program.Classify(p))

			if tt.wantErr {
				if !errors.Is(err, ErrRetriesExhausted) {
					t.Errorf("Transfer() error = %v, want %v", err,
						ErrRetriesExhausted)
				}
				if !errors.Is(err, errWrite) {
					t.Errorf("Transfer() error = %v, want cause %v", err,
						errWrite)
				}
			} else if err != nil {
				t.Errorf("Transfer() error = %v", err)
			}

			if !reflect.DeepEqual(s.delays, tt.wantDelays) {
				t.Errorf("delays = %v, want %v", s.delays, tt.wantDelays)
			}
		})
	}
}

func TestTransferCancelled(t *testing.T) {

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mem := mock.NewMockMemory(ctrl)
	mem.EXPECT().WriteBlock(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errWrite).Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &program.Payload{LoadAddress: 0xc000, Body: []byte{0x60}}
	err := New(mem, testOptions(&sleeper{})).Transfer(ctx, p,
		program.Classify(p))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Transfer() error = %v, want %v", err, context.Canceled)
	}
}

func TestTransferAddressRange(t *testing.T) {

	tests := []struct {
		name string
		p    *program.Payload
		kind program.Kind
	}{
		{
			name: "beyond address space",
			p:    &program.Payload{LoadAddress: 0xffff, Body: []byte{1, 2}},
			kind: program.Native,
		},
		{
			name: "BASIC end too high",
			p: &program.Payload{LoadAddress: 0x0801,
				Body: make([]byte, 0xfffe-0x0801)},
			kind: program.Interpreted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mem := mock.NewMockMemory(ctrl)
			plan := &program.Plan{LoadAddress: tt.p.LoadAddress,
				End: tt.p.End(), Kind: tt.kind}

			err := New(mem, testOptions(&sleeper{})).Transfer(
				context.Background(), tt.p, plan)
			if !errors.Is(err, ErrAddressRange) {
				t.Errorf("Transfer() error = %v, want %v", err, ErrAddressRange)
			}
		})
	}
}

func TestTransferBasicPointers(t *testing.T) {

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mem := mock.NewMockMemory(ctrl)

	// 10 PRINT
	body := []byte{0x07, 0x08, 0x0a, 0x00, 0x99, 0x00, 0x00, 0x00}
	p := &program.Payload{LoadAddress: 0x0801, Body: body}
	plan := program.Classify(p)
	if !plan.Interpreted() {
		t.Fatalf("Classify() = %v, want BASIC", plan)
	}

	gomock.InOrder(
		mem.EXPECT().WriteBlock(gomock.Any(), uint16(0x0801), body),
		mem.EXPECT().WriteBlock(gomock.Any(), uint16(0x002d),
			[]byte{0x09, 0x08, 0x09, 0x08, 0x09, 0x08}),
		mem.EXPECT().WriteBlock(gomock.Any(), uint16(0x00ae),
			[]byte{0x09, 0x08}),
		mem.EXPECT().WriteBlock(gomock.Any(), uint16(0x0809),
			[]byte{0, 0}),
	)

	if err := New(mem, testOptions(&sleeper{})).Transfer(
		context.Background(), p, plan); err != nil {
		t.Errorf("Transfer() error = %v", err)
	}
}

func TestAutostart(t *testing.T) {

	errRead := errors.New("timeout")

	tests := []struct {
		name       string
		seq        []byte
		counts     []byte
		readErr    error
		wantWrite  bool
		wantErr    error
		wantSleeps int
	}{
		{
			name: "idle", seq: []byte("RUN\r"), counts: []byte{0},
			wantWrite: true,
		},
		{
			name: "busy then idle", seq: []byte("RUN\r"),
			counts: []byte{4, 1, 0}, wantWrite: true, wantSleeps: 2,
		},
		{
			name: "busy", seq: []byte("RUN\r"), counts: []byte{1, 1, 1},
			wantErr: ErrBufferBusy, wantSleeps: 2,
		},
		{
			name: "too long", seq: []byte("SYS 123456\r"),
			wantErr: ErrCommandTooLong,
		},
		{
			name: "read error", seq: []byte("RUN\r"), readErr: errRead,
			wantErr: errRead,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mem := mock.NewMockMemory(ctrl)
			s := &sleeper{}
			opts := testOptions(s)
			opts.PollAttempts = 3

			var calls []*gomock.Call
			if tt.readErr != nil {
				calls = append(calls, mem.EXPECT().ReadBlock(
					gomock.Any(), uint16(0x00c6), 1).Return(nil, tt.readErr))
			}
			for _, c := range tt.counts {
				calls = append(calls, mem.EXPECT().ReadBlock(
					gomock.Any(), uint16(0x00c6), 1).Return([]byte{c}, nil))
			}
			if tt.wantWrite {
				calls = append(calls,
					mem.EXPECT().WriteBlock(gomock.Any(), uint16(0x0277), tt.seq),
					mem.EXPECT().WriteBlock(gomock.Any(), uint16(0x00c6),
						[]byte{byte(len(tt.seq))}))
			}
			if len(calls) > 0 {
				gomock.InOrder(calls...)
			}

			err := New(mem, opts).Autostart(context.Background(), tt.seq)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Autostart() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(s.delays) != tt.wantSleeps {
				t.Errorf("sleeps = %d, want %d", len(s.delays), tt.wantSleeps)
			}
		})
	}
}

func TestAutostartWriteError(t *testing.T) {

	errWrite := errors.New("connection reset")
	seq := []byte("RUN\r")

	for _, failLength := range []bool{false, true} {

		ctrl := gomock.NewController(t)
		mem := mock.NewMockMemory(ctrl)
		s := &sleeper{}

		calls := []*gomock.Call{
			mem.EXPECT().ReadBlock(gomock.Any(), uint16(0x00c6), 1).
				Return([]byte{0}, nil),
		}
		if failLength {
			calls = append(calls,
				mem.EXPECT().WriteBlock(gomock.Any(), uint16(0x0277), seq).
					Return(nil),
				mem.EXPECT().WriteBlock(gomock.Any(), uint16(0x00c6),
					[]byte{4}).Return(errWrite).Times(1))
		} else {
			calls = append(calls,
				mem.EXPECT().WriteBlock(gomock.Any(), uint16(0x0277), seq).
					Return(errWrite).Times(1))
		}
		gomock.InOrder(calls...)

		err := New(mem, testOptions(s)).Autostart(context.Background(), seq)
		if !errors.Is(err, errWrite) {
			t.Errorf("failing length write %v: Autostart() error = %v, want %v",
				failLength, err, errWrite)
		}
		if errors.Is(err, ErrRetriesExhausted) || len(s.delays) != 0 {
			t.Errorf("failing length write %v: write was retried, delays %v",
				failLength, s.delays)
		}

		ctrl.Finish()
	}
}

func TestInvalidOptions(t *testing.T) {

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mem := mock.NewMockMemory(ctrl)

	for _, o := range []*Options{
		{Retries: 0, PollAttempts: 1},
		{Retries: 1, PollAttempts: 0},
		{Retries: 1, PollAttempts: 1, Backoff: -time.Second},
	} {
		_, err := New(mem, o).LoadFirstProgram(
			context.Background(), helloImage(), disk.D64)
		if !errors.Is(err, ErrInvalidSettings) {
			t.Errorf("LoadFirstProgram(%+v) error = %v, want %v", o, err,
				ErrInvalidSettings)
		}
	}
}

func TestLoadAgainstUltimate(t *testing.T) {

	f := fake.New()
	srv := httptest.NewServer(f.Handler())
	defer srv.Close()

	s := &sleeper{}
	l := New(remote.NewUltimate(srv.URL, "", 0), testOptions(s))

	var first []byte

	// loading the same image twice leaves the target in the same state
	for run := 0; run < 2; run++ {

		f.Poke(0x00c6, 0)

		res, err := l.LoadFirstProgram(context.Background(), helloImage(),
			disk.D64)
		if err != nil {
			t.Fatalf("run %d: LoadFirstProgram() error = %v", run, err)
		}
		if res.Name != "HELLO" {
			t.Errorf("run %d: name = %q, want HELLO", run, res.Name)
		}

		if got := f.Peek(0x0801, 1); got[0] != 0xaa {
			t.Errorf("run %d: $0801 = %02x, want aa", run, got[0])
		}
		if got := f.Peek(0x0277, 9); string(got) != "SYS 2049\r" {
			t.Errorf("run %d: keyboard buffer = %q", run, got)
		}
		if got := f.Peek(0x00c6, 1); got[0] != 9 {
			t.Errorf("run %d: keyboard count = %d, want 9", run, got[0])
		}

		mem := f.Peek(0, remote.AddressSpace)
		if first == nil {
			first = mem
		} else if !bytes.Equal(first, mem) {
			t.Errorf("run %d: memory differs from first run", run)
		}
	}

	if f.Resets != 2 {
		t.Errorf("resets = %d, want 2", f.Resets)
	}
	if len(s.delays) != 2 || s.delays[0] != DefaultResetDelay {
		t.Errorf("delays = %v, want reset delay twice", s.delays)
	}
}
