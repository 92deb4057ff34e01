/*
 * Copyright 2026 Bluekit Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package serial

import (
	"io"
	"sync"
)

const forwardBufferSize = 1024

// forwarder splices two streams full duplex, one goroutine per
// direction. When one side hangs up, its direction forwards whatever
// was still readable and then closes the destination, which tears down
// the paired direction.
type forwarder struct {
	remote io.ReadWriteCloser
	local  io.ReadWriteCloser

	wg       sync.WaitGroup
	stopOnce sync.Once
}

func newForwarder(remote, local io.ReadWriteCloser) *forwarder {
	return &forwarder{remote: remote, local: local}
}

// start launches both directions and calls done once both have ended.
func (f *forwarder) start(done func()) {
	f.wg.Add(2)

	go f.pump(f.remote, f.local)
	go f.pump(f.local, f.remote)

	go func() {
		f.wg.Wait()

		if done != nil {
			done()
		}
	}()
}

// stop force-closes both streams, unblocking the pumps.
func (f *forwarder) stop() {
	f.stopOnce.Do(func() {
		f.remote.Close()
		f.local.Close()
	})
}

func (f *forwarder) pump(src io.Reader, dst io.WriteCloser) {
	defer f.wg.Done()

	buf := make([]byte, forwardBufferSize)

	for {
		n, err := src.Read(buf)
		if n > 0 {
			if werr := writeAll(dst, buf[:n]); werr != nil {
				dst.Close()
				return
			}
		}

		if err != nil {
			dst.Close()
			return
		}
	}
}

func writeAll(dst io.Writer, data []byte) error {
	for len(data) > 0 {
		n, err := dst.Write(data)
		if err != nil {
			return err
		}

		data = data[n:]
	}

	return nil
}
