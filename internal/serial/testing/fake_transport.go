// Package testing provides test doubles for the serial package.
package testing

import "sync"

// FakeTransport simulates a serial device for testing.
// It records sent requests and replays scripted responses.
type FakeTransport struct {
	mu sync.Mutex

	// Configuration
	Responses []string // returned by successive ReadAvailable calls
	SendErr   error    // returned by every Send if set
	ReadErr   error    // returned by every ReadAvailable if set

	// Call tracking
	Sent      []string
	ReadCalls int
	Closed    bool
}

// NewFakeTransport creates a fake transport that replays the given responses
// in order, returning "" once they run out.
func NewFakeTransport(responses ...string) *FakeTransport {
	return &FakeTransport{Responses: responses}
}

// Send records the request.
func (f *FakeTransport) Send(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Sent = append(f.Sent, string(data))
	return f.SendErr
}

// ReadAvailable returns the next scripted response.
func (f *FakeTransport) ReadAvailable() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ReadCalls++
	if f.ReadErr != nil {
		return "", f.ReadErr
	}
	if len(f.Responses) == 0 {
		return "", nil
	}
	resp := f.Responses[0]
	f.Responses = f.Responses[1:]
	return resp, nil
}

// Close marks the transport closed.
func (f *FakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Closed = true
	return nil
}

// SentRequests returns a copy of all requests sent so far.
func (f *FakeTransport) SentRequests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.Sent))
	copy(out, f.Sent)
	return out
}

// Enqueue appends further scripted responses.
func (f *FakeTransport) Enqueue(responses ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Responses = append(f.Responses, responses...)
}
