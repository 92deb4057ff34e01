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

package discovery

import "context"

// pinnedAdapter fixes the default adapter to a configured one.
type pinnedAdapter struct {
	src AdapterSource
	id  string
}

// PinnedAdapter wraps src so DefaultAdapter resolves the given adapter
// ID instead of whichever radio the system prefers.
func PinnedAdapter(src AdapterSource, id string) AdapterSource {
	return &pinnedAdapter{src: src, id: id}
}

func (p *pinnedAdapter) DefaultAdapter(ctx context.Context) (Adapter, error) {
	return p.src.AdapterByID(ctx, p.id)
}

func (p *pinnedAdapter) AdapterByID(ctx context.Context, id string) (Adapter, error) {
	return p.src.AdapterByID(ctx, id)
}
