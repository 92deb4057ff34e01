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
	"fmt"
	"strings"
	"sync"

	"github.com/bluekit/serialbridge/pkg/models"
)

// Registry tracks in-flight connection attempts so duplicates are
// rejected and a requester's exit can cancel its outstanding work.
type Registry struct {
	mu      sync.Mutex
	pending map[string]*PendingConnect
}

func NewRegistry() *Registry {
	return &Registry{pending: make(map[string]*PendingConnect)}
}

func pendingKey(remote models.Address, pattern string) string {
	return fmt.Sprintf("%s#%s", strings.ToLower(remote.String()), strings.ToLower(pattern))
}

// Add registers a pending connection, failing with ErrInProgress when
// one already exists for the same remote address and pattern.
func (r *Registry) Add(p *PendingConnect) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pendingKey(p.Remote, p.Pattern)
	if _, ok := r.pending[key]; ok {
		return ErrInProgress
	}

	r.pending[key] = p

	return nil
}

// Remove drops a pending connection if it is still the registered one
// for its key.
func (r *Registry) Remove(p *PendingConnect) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pendingKey(p.Remote, p.Pattern)
	if r.pending[key] == p {
		delete(r.pending, key)
	}
}

// Contains reports whether p is still the registered attempt for its
// key. Stages re-check this before acting on an async result.
func (r *Registry) Contains(p *PendingConnect) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.pending[pendingKey(p.Remote, p.Pattern)] == p
}

// Find returns the registered attempt for (remote, pattern), or nil.
func (r *Registry) Find(remote models.Address, pattern string) *PendingConnect {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.pending[pendingKey(remote, pattern)]
}

// ByOwner returns every pending connection submitted by owner.
func (r *Registry) ByOwner(owner string) []*PendingConnect {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*PendingConnect

	for _, p := range r.pending {
		if p.Owner == owner {
			out = append(out, p)
		}
	}

	return out
}
