package buffers

import "testing"

func TestGetReturnsFullSizeBuffer(t *testing.T) {
	p := NewBufferPool(512)
	buf := p.Get()
	if len(buf) != 512 {
		t.Fatalf("got buffer of len %d, want 512", len(buf))
	}
	p.Put(buf)
}

func TestPutRejectsUndersizedBuffers(t *testing.T) {
	p := NewBufferPool(512)
	p.Put(nil)
	p.Put(make([]byte, 16))
	if buf := p.Get(); len(buf) != 512 {
		t.Fatalf("pool handed back undersized buffer of len %d", len(buf))
	}
}

func TestStreamBufferPoolSize(t *testing.T) {
	buf := StreamBufferPool.Get()
	defer StreamBufferPool.Put(buf)
	if len(buf) != StreamChunkSize {
		t.Fatalf("stream buffer len = %d, want %d", len(buf), StreamChunkSize)
	}
}
