package player

import (
	"sync"
	"time"
)

// Mock тестовый двойник плеера
type Mock struct {
	mutex      sync.Mutex
	loaded     string
	playing    bool
	position   time.Duration
	duration   time.Duration
	volume     float64
	loadErr    error
	playErr    error
	seekErr    error
	loadCalls  []string
	playCalls  int
	pauseCalls int
	stopCalls  int
	seekCalls  []time.Duration
}

// NewMock создает тестовый плеер с треками длительностью 3 минуты
func NewMock() *Mock {
	return &Mock{
		duration: 3 * time.Minute,
		volume:   1,
	}
}

func (m *Mock) Load(ref string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.loadCalls = append(m.loadCalls, ref)
	if m.loadErr != nil {
		return m.loadErr
	}
	m.loaded = ref
	m.playing = false
	m.position = 0
	return nil
}

func (m *Mock) Play() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.playCalls++
	if m.playErr != nil {
		return m.playErr
	}
	if m.loaded == "" {
		return ErrNothingLoaded
	}
	m.playing = true
	return nil
}

func (m *Mock) Pause() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.pauseCalls++
	m.playing = false
}

func (m *Mock) Stop() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.stopCalls++
	m.loaded = ""
	m.playing = false
	m.position = 0
}

func (m *Mock) Seek(d time.Duration) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.seekCalls = append(m.seekCalls, d)
	if m.seekErr != nil {
		return m.seekErr
	}
	m.position = d
	return nil
}

func (m *Mock) Duration() time.Duration {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.loaded == "" {
		return 0
	}
	return m.duration
}

func (m *Mock) SetVolume(level float64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.volume = level
}

// Вспомогательные методы для тестов

func (m *Mock) SetLoadError(err error) { m.mutex.Lock(); m.loadErr = err; m.mutex.Unlock() }

func (m *Mock) SetPlayError(err error) { m.mutex.Lock(); m.playErr = err; m.mutex.Unlock() }

func (m *Mock) SetSeekError(err error) { m.mutex.Lock(); m.seekErr = err; m.mutex.Unlock() }

func (m *Mock) SetDuration(d time.Duration) { m.mutex.Lock(); m.duration = d; m.mutex.Unlock() }

func (m *Mock) Loaded() string { m.mutex.Lock(); defer m.mutex.Unlock(); return m.loaded }

func (m *Mock) Playing() bool { m.mutex.Lock(); defer m.mutex.Unlock(); return m.playing }

func (m *Mock) Position() time.Duration { m.mutex.Lock(); defer m.mutex.Unlock(); return m.position }

func (m *Mock) Volume() float64 { m.mutex.Lock(); defer m.mutex.Unlock(); return m.volume }

func (m *Mock) LoadCalls() []string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]string(nil), m.loadCalls...)
}

func (m *Mock) PlayCalls() int { m.mutex.Lock(); defer m.mutex.Unlock(); return m.playCalls }

func (m *Mock) PauseCalls() int { m.mutex.Lock(); defer m.mutex.Unlock(); return m.pauseCalls }

func (m *Mock) StopCalls() int { m.mutex.Lock(); defer m.mutex.Unlock(); return m.stopCalls }

func (m *Mock) SeekCalls() []time.Duration {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}
