package appvol

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeHost is an in-memory audio subsystem that records every acquisition and release
type fakeHost struct {
	mu sync.Mutex

	sessions []*fakeSession

	openErr       error
	endpointErr   error
	managerErr    error
	enumeratorErr error
	countErr      error

	opens   int
	handles []*fakeHandle
	log     []string
}

type fakeSession struct {
	identifier string
	pid        uint32
	volume     float32

	sessionErr    error
	identifierErr error
	pidErr        error
	volumeErr     error
	getErr        error
	setErr        error

	sets int
}

type fakeHandle struct {
	host     *fakeHost
	kind     string
	releases int
}

type fakeBinding struct{ *fakeHandle }
type fakeEndpoint struct{ *fakeHandle }
type fakeManager struct{ *fakeHandle }
type fakeEnumerator struct{ *fakeHandle }

type fakeControl struct {
	*fakeHandle
	session *fakeSession
}

type fakeVolume struct {
	*fakeHandle
	session *fakeSession
}

func newFakeHost(identifiers ...string) *fakeHost {
	host := &fakeHost{}

	for _, identifier := range identifiers {
		host.sessions = append(host.sessions, &fakeSession{identifier: identifier, volume: 0.5})
	}

	return host
}

// acquire must be called with mu held
func (host *fakeHost) acquire(kind string) *fakeHandle {
	h := &fakeHandle{host: host, kind: kind}
	host.handles = append(host.handles, h)
	host.log = append(host.log, "acquire "+kind)

	return h
}

func (h *fakeHandle) Release() {
	h.host.mu.Lock()
	defer h.host.mu.Unlock()

	h.releases++
	h.host.log = append(h.host.log, "release "+h.kind)
}

func (host *fakeHost) Open() (Binding, error) {
	host.mu.Lock()
	defer host.mu.Unlock()

	host.opens++

	if host.openErr != nil {
		return nil, host.openErr
	}

	return &fakeBinding{host.acquire("binding")}, nil
}

func (b *fakeBinding) DefaultRenderEndpoint() (Endpoint, error) {
	b.host.mu.Lock()
	defer b.host.mu.Unlock()

	if b.host.endpointErr != nil {
		return nil, b.host.endpointErr
	}

	return &fakeEndpoint{b.host.acquire("endpoint")}, nil
}

func (e *fakeEndpoint) SessionManager() (SessionManager, error) {
	e.host.mu.Lock()
	defer e.host.mu.Unlock()

	if e.host.managerErr != nil {
		return nil, e.host.managerErr
	}

	return &fakeManager{e.host.acquire("manager")}, nil
}

func (m *fakeManager) Sessions() (SessionEnumerator, error) {
	m.host.mu.Lock()
	defer m.host.mu.Unlock()

	if m.host.enumeratorErr != nil {
		return nil, m.host.enumeratorErr
	}

	return &fakeEnumerator{m.host.acquire("enumerator")}, nil
}

func (se *fakeEnumerator) Count() (int, error) {
	se.host.mu.Lock()
	defer se.host.mu.Unlock()

	if se.host.countErr != nil {
		return 0, se.host.countErr
	}

	return len(se.host.sessions), nil
}

func (se *fakeEnumerator) Session(idx int) (SessionControl, error) {
	se.host.mu.Lock()
	defer se.host.mu.Unlock()

	session := se.host.sessions[idx]
	if session.sessionErr != nil {
		return nil, session.sessionErr
	}

	return &fakeControl{se.host.acquire(fmt.Sprintf("session %d", idx)), session}, nil
}

func (c *fakeControl) InstanceIdentifier() (string, error) {
	c.host.mu.Lock()
	defer c.host.mu.Unlock()

	if c.session.identifierErr != nil {
		return "", c.session.identifierErr
	}

	return c.session.identifier, nil
}

func (c *fakeControl) ProcessID() (uint32, error) {
	c.host.mu.Lock()
	defer c.host.mu.Unlock()

	if c.session.pidErr != nil {
		return 0, c.session.pidErr
	}

	return c.session.pid, nil
}

func (c *fakeControl) SimpleVolume() (SimpleVolume, error) {
	c.host.mu.Lock()
	defer c.host.mu.Unlock()

	if c.session.volumeErr != nil {
		return nil, c.session.volumeErr
	}

	return &fakeVolume{c.host.acquire("volume " + c.kind), c.session}, nil
}

func (v *fakeVolume) MasterVolume() (float32, error) {
	v.host.mu.Lock()
	defer v.host.mu.Unlock()

	if v.session.getErr != nil {
		return 0, v.session.getErr
	}

	return v.session.volume, nil
}

func (v *fakeVolume) SetMasterVolume(level float32) error {
	v.host.mu.Lock()
	defer v.host.mu.Unlock()

	if v.session.setErr != nil {
		return v.session.setErr
	}

	v.session.volume = level
	v.session.sets++

	return nil
}

func (host *fakeHost) volumeOf(idx int) float32 {
	host.mu.Lock()
	defer host.mu.Unlock()

	return host.sessions[idx].volume
}

func (host *fakeHost) setsOf(idx int) int {
	host.mu.Lock()
	defer host.mu.Unlock()

	return host.sessions[idx].sets
}

func (host *fakeHost) openCount() int {
	host.mu.Lock()
	defer host.mu.Unlock()

	return host.opens
}

func (host *fakeHost) events() []string {
	host.mu.Lock()
	defer host.mu.Unlock()

	return append([]string(nil), host.log...)
}

// assertAllReleased checks that every handle handed out was released exactly once
func (host *fakeHost) assertAllReleased(t *testing.T) {
	t.Helper()

	host.mu.Lock()
	defer host.mu.Unlock()

	for _, h := range host.handles {
		assert.Equalf(t, 1, h.releases, "handle %q released %d times", h.kind, h.releases)
	}
}

// setVolume changes a session's volume behind the setter's back, like another program would
func (host *fakeHost) setVolume(idx int, level float32) {
	host.mu.Lock()
	defer host.mu.Unlock()

	host.sessions[idx].volume = level
}

func (host *fakeHost) failOpen(err error) {
	host.mu.Lock()
	defer host.mu.Unlock()

	host.openErr = err
}
