package render

import (
	"encoding/json"
	"sync"
)

// FrameMessage is the wire form of a scene sent to network clients.
type FrameMessage struct {
	Type  string `json:"type"`
	Scene Scene  `json:"scene"`
}

// FrameRenderer encodes each scene as a JSON frame message and hands it to
// a sink (a websocket room, a test buffer). Encoding errors are reported via
// the optional OnError callback; the frame is dropped.
type FrameRenderer struct {
	Sink    func(data []byte)
	OnError func(err error)

	mu   sync.Mutex
	last []byte
}

// NewFrameRenderer creates a renderer that delivers encoded frames to sink.
func NewFrameRenderer(sink func(data []byte)) *FrameRenderer {
	return &FrameRenderer{Sink: sink}
}

// DrawScene implements Renderer.
func (r *FrameRenderer) DrawScene(scene Scene) {
	data, err := json.Marshal(FrameMessage{Type: "frame", Scene: scene})
	if err != nil {
		if r.OnError != nil {
			r.OnError(err)
		}
		return
	}

	r.mu.Lock()
	r.last = data
	r.mu.Unlock()

	if r.Sink != nil {
		r.Sink(data)
	}
}

// Last returns the most recently encoded frame, for late joiners.
func (r *FrameRenderer) Last() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
