package usecase

import (
	"github.com/awnumar/memguard"
)

// memoryKey holds the store key for the rest of the process, encrypted at rest in a
// memguard enclave.
type memoryKey struct {
	enclave *memguard.Enclave
}

func (m *memoryKey) present() bool {
	return m.enclave != nil
}

// open returns a guarded copy of the key. The caller must Destroy it.
func (m *memoryKey) open() (*memguard.LockedBuffer, error) {
	return m.enclave.Open()
}

// keep seals buf into the enclave. buf is destroyed.
func (m *memoryKey) keep(buf *memguard.LockedBuffer) {
	m.enclave = buf.Seal()
}

func (m *memoryKey) clear() {
	m.enclave = nil
}
