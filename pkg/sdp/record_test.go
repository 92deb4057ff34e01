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

package sdp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sppUUID = "00001101-0000-1000-8000-00805F9B34FB"

func TestProxyRecordRoundTrip(t *testing.T) {
	data, err := ProxyRecord(sppUUID, 7)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	ch, err := ExtractChannel(data)
	require.NoError(t, err)
	assert.Equal(t, uint8(7), ch)

	assert.Equal(t, "Port Proxy Entity", ServiceName(data))
}

func TestProxyRecordAttributes(t *testing.T) {
	data, err := ProxyRecord(sppUUID, 3)
	require.NoError(t, err)

	rec, err := ParseRecord(data)
	require.NoError(t, err)

	for _, id := range []uint16{
		AttrServiceClassIDList,
		AttrProtocolDescriptors,
		AttrBrowseGroupList,
		AttrLanguageBaseList,
		AttrProfileDescriptors,
		AttrServiceName,
	} {
		assert.Contains(t, rec, id)
	}

	classes := rec[AttrServiceClassIDList]
	require.True(t, classes.isSeq())
	require.Len(t, classes.Seq, 1)
	assert.Equal(t, sppUUID, strings.ToUpper(classes.Seq[0].UUID.String()))
}

func TestExtractChannelEmpty(t *testing.T) {
	_, err := ExtractChannel(nil)
	assert.ErrorIs(t, err, ErrEmptyRecord)
}

func TestExtractChannelMalformed(t *testing.T) {
	t.Run("garbage", func(t *testing.T) {
		_, err := ExtractChannel([]byte{0xff, 0x01, 0x02})
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		data, err := ProxyRecord(sppUUID, 5)
		require.NoError(t, err)

		_, err = ExtractChannel(append(data, 0x00))
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("truncated", func(t *testing.T) {
		data, err := ProxyRecord(sppUUID, 5)
		require.NoError(t, err)

		_, err = ExtractChannel(data[:len(data)/2])
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})
}

func TestExtractChannelMissing(t *testing.T) {
	rec := Record{
		AttrBrowseGroupList: Seq(UUID16(uuidPublicBrowse)),
		// L2CAP only, no RFCOMM entry.
		AttrProtocolDescriptors: Seq(Seq(UUID16(uuidL2CAP))),
	}

	data, err := rec.Marshal()
	require.NoError(t, err)

	_, err = ExtractChannel(data)
	assert.ErrorIs(t, err, ErrNoChannel)
}

func TestExtractChannelOutOfRange(t *testing.T) {
	rec := Record{
		AttrProtocolDescriptors: Seq(
			Seq(UUID16(uuidL2CAP)),
			Seq(UUID16(uuidRFCOMM), Uint8(31)),
		),
	}

	data, err := rec.Marshal()
	require.NoError(t, err)

	_, err = ExtractChannel(data)
	assert.ErrorIs(t, err, ErrChannelOutOfRange)
}

func TestServiceNameAbsent(t *testing.T) {
	rec := Record{
		AttrProtocolDescriptors: Seq(
			Seq(UUID16(uuidRFCOMM), Uint8(1)),
		),
	}

	data, err := rec.Marshal()
	require.NoError(t, err)

	assert.Empty(t, ServiceName(data))
}
